package models

// CustomerInfo carries the contact details a customer enters during intake.
// All fields are optional until payment; the public flow works for anonymous
// visitors who only picked a slot.
type CustomerInfo struct {
	Name  string `bson:"name,omitempty" json:"name,omitempty"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
	Email string `bson:"email,omitempty" json:"email,omitempty"`
}
