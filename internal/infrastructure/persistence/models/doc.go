// Package models contains the GORM persistence models for the ERP tables.
// Domain types carry no ORM tags; each model maps to and from its domain
// aggregate with ToDomain and FromDomain.
package models
