package models

// Role identifies what a user account is allowed to do
type Role string

const (
	RoleCustomer Role = "customer"
	RolePartner  Role = "partner"
	RoleAdmin    Role = "admin"
)

// User represents a customer, referral partner or admin account.
// HasUsedCoupon is the lifetime coupon flag: it flips false->true exactly
// once, via a conditional update inside the redemption transaction, and is
// never reset by normal flow.
type User struct {
	Base
	Email         string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash  string `gorm:"type:varchar(255);not null" json:"-"`
	FirstName     string `gorm:"type:varchar(100)" json:"first_name"`
	LastName      string `gorm:"type:varchar(100)" json:"last_name"`
	Role          Role   `gorm:"type:varchar(20);not null;default:'customer';index" json:"role"`
	BusinessName  string `gorm:"type:varchar(150)" json:"business_name,omitempty"`
	HasUsedCoupon bool   `gorm:"not null;default:false" json:"has_used_coupon"`
	IsActive      bool   `gorm:"not null;default:true" json:"is_active"`
}

// IsPartner reports whether the account can own coupons and earn commissions
func (u *User) IsPartner() bool {
	return u.Role == RolePartner
}
