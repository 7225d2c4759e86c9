package entity

import "time"

// DistributorStock cantidad de un producto en manos de un distribuidor (una fila por distribuidor+producto).
type DistributorStock struct {
	CompanyID     string
	DistributorID string
	ProductID     string
	Quantity      int
	UpdatedAt     time.Time
}
