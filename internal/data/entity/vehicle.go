package entity

type Vehicle struct {
	Base
	LicensePlate         string  `db:"license_plate"`
	Capacity             int     `db:"capacity"`
	IsActive             bool    `db:"is_active"`
	IsBanned             bool    `db:"is_banned"`
	DefaultDestinationID *string `db:"default_destination_id"`
}

// Eligible reports whether the vehicle may join a queue at all.
func (v *Vehicle) Eligible() bool {
	return v.IsActive && !v.IsBanned
}
