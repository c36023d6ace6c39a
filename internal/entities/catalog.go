package entities

import "time"

// ServiceOption is one entry of the static service catalog.
type ServiceOption struct {
	Code             int
	Label            string
	PriceDescription string
	LeadTime         time.Duration
}
