package services

import "sparklewash/internal/models"

// Role-based transition policy, kept outside the state machine itself.
//
//	tentative, confirmed  -> admin, sales_executive
//	in_progress, completed -> admin, sales_executive, agent
//	cancelled             -> admin, sales_executive
var transitionRoles = map[models.OrderStatus][]models.UserRole{
	models.OrderTentative:  {models.RoleAdmin, models.RoleSalesExecutive},
	models.OrderConfirmed:  {models.RoleAdmin, models.RoleSalesExecutive},
	models.OrderInProgress: {models.RoleAdmin, models.RoleSalesExecutive, models.RoleAgent},
	models.OrderCompleted:  {models.RoleAdmin, models.RoleSalesExecutive, models.RoleAgent},
	models.OrderCancelled:  {models.RoleAdmin, models.RoleSalesExecutive},
}

// CanTransition reports whether the actor's role permits a transition into the
// target status.
func CanTransition(actor *models.User, target models.OrderStatus) bool {
	if actor == nil {
		return false
	}
	for _, role := range transitionRoles[target] {
		if actor.Role == role {
			return true
		}
	}
	return false
}
