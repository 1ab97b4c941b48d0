package models

// Enum values are stored as plain strings, same values the frontend already
// sends.

type LoanStatus string

const (
	LoanPending   LoanStatus = "pending"
	LoanApproved  LoanStatus = "approved"
	LoanActive    LoanStatus = "active"
	LoanReturned  LoanStatus = "returned"
	LoanOverdue   LoanStatus = "overdue"
	LoanCancelled LoanStatus = "cancelled"
)

func (s LoanStatus) Valid() bool {
	switch s {
	case LoanPending, LoanApproved, LoanActive, LoanReturned, LoanOverdue, LoanCancelled:
		return true
	}
	return false
}

// HoldsStock reports whether a loan in this status owns a stock reservation.
func (s LoanStatus) HoldsStock() bool {
	switch s {
	case LoanApproved, LoanActive, LoanOverdue:
		return true
	}
	return false
}

type ItemCondition string

const (
	ConditionGood    ItemCondition = "good"
	ConditionDamaged ItemCondition = "damaged"
	ConditionRepair  ItemCondition = "repair"
	ConditionLost    ItemCondition = "lost"
)

func (c ItemCondition) Valid() bool {
	switch c {
	case ConditionGood, ConditionDamaged, ConditionRepair, ConditionLost:
		return true
	}
	return false
}

type ItemAvailability string

const (
	ItemAvailable   ItemAvailability = "available"
	ItemBorrowed    ItemAvailability = "borrowed"
	ItemMaintenance ItemAvailability = "maintenance"
	ItemRetired     ItemAvailability = "retired"
)

type ItemCategory string

const (
	CategoryComputer  ItemCategory = "computer"
	CategoryWebCam    ItemCategory = "web_cam"
	CategoryPrinter   ItemCategory = "printer"
	CategoryProjector ItemCategory = "projector"
	CategoryCable     ItemCategory = "cable"
	CategoryMouse     ItemCategory = "mouse"
	CategoryKeyboard  ItemCategory = "keyboard"
	CategoryHeadset   ItemCategory = "headset"
	CategoryMonitor   ItemCategory = "monitor"
	CategoryLaptop    ItemCategory = "laptop"
)
