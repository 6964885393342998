package reservation

import "tablehub/internal/domain/auth"

// relation classifies actor against r. Admin wins over operator, operator
// over the booking user.
func relation(actor auth.Actor, r *Reservation, restaurantOwnerID int64) (ActorKind, bool) {
	switch {
	case actor.IsAdmin():
		return ActorAdmin, true
	case actor.IsRestaurantOwner() && restaurantOwnerID != 0 && restaurantOwnerID == actor.UserID:
		return ActorRestaurant, true
	case actor.UserID != 0 && actor.UserID == r.UserID:
		return ActorUser, true
	}
	return "", false
}

// CanManage reports whether actor may view or mutate r.
func CanManage(actor auth.Actor, r *Reservation, restaurantOwnerID int64) bool {
	_, ok := relation(actor, r, restaurantOwnerID)
	return ok
}

// operatorOnly operations are reserved for the restaurant side.
func operatorOnly(op Operation) bool {
	return op == OpConfirm || op == OpComplete || op == OpMarkNoShow
}
