package domain

// Category is the closed classification label attached to every ticket.
type Category string

const (
	CategoryPassword      Category = "password"
	CategoryVPN           Category = "vpn"
	CategoryEmailOutlook  Category = "email_outlook"
	CategoryPrinter       Category = "printer"
	CategoryNetwork       Category = "network"
	CategoryHardware      Category = "hardware"
	CategorySoftware      Category = "software"
	CategoryAccessRequest Category = "access_request"
	CategoryOther         Category = "other"
)

// Categories returns the closed category set in declaration order.
func Categories() []Category {
	return []Category{
		CategoryPassword,
		CategoryVPN,
		CategoryEmailOutlook,
		CategoryPrinter,
		CategoryNetwork,
		CategoryHardware,
		CategorySoftware,
		CategoryAccessRequest,
		CategoryOther,
	}
}

// ValidCategory reports whether c is a member of the closed set.
func ValidCategory(c Category) bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}
