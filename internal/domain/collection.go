package domain

// Collection names a logical entity set. The same name is used as the local
// storage namespace suffix and as the remote table name.
type Collection string

const (
	CollectionProfessionals Collection = "professionals"
	CollectionClients       Collection = "clients"
	CollectionCategories    Collection = "categories"
	CollectionPlans         Collection = "plans"
	CollectionSlots         Collection = "slots"
	CollectionBookings      Collection = "bookings"
	CollectionMessages      Collection = "messages"
	CollectionConversations Collection = "conversations"
	CollectionNotifications Collection = "notifications"
	CollectionFavorites     Collection = "favorites"
	CollectionSessionUser   Collection = "session-user"
)

// SyncedCollections lists the collections mirrored by the remote backend, in
// pull order. Conversations are derived from messages and the session user
// never leaves the device.
func SyncedCollections() []Collection {
	return []Collection{
		CollectionProfessionals,
		CollectionClients,
		CollectionCategories,
		CollectionPlans,
		CollectionSlots,
		CollectionBookings,
		CollectionMessages,
		CollectionNotifications,
		CollectionFavorites,
	}
}

// UserCollection returns the collection a user record lives in.
func UserCollection(role UserRole) Collection {
	if role == RoleTeacher {
		return CollectionProfessionals
	}
	return CollectionClients
}
