package entity

// User is the read-only surface of the user sub-system. Registration and
// authentication live elsewhere; this service only checks existence and keeps
// the owning reference on orders, bookings, and idempotency records.
type User struct {
	BaseSimple
	Email string `db:"email"`
	Name  string `db:"name"`
}
