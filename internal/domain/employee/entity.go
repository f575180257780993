package employee

// Employee is the directory entry an activity belongs to.
type Employee struct {
	ID         string
	CompanyID  string
	UserID     *string
	ManagerID  *string // direct line manager
	FullName   string
	IDCard     string
	Department string
	Region     string
	Branch     string
	Location   string
}
