package user

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=USER ADMIN OWNER"`
}

type AdjustBalanceRequest struct {
	BalanceType string  `json:"balance_type" binding:"required,oneof=annual sick toil"`
	Value       float64 `json:"value"`
	Reason      string  `json:"reason" binding:"required"`
}

type UserResponse struct {
	ID                 string  `json:"id"`
	Email              string  `json:"email"`
	Name               string  `json:"name"`
	Role               string  `json:"role"`
	AnnualLeaveBalance float64 `json:"annual_leave_balance"`
	SickLeaveBalance   float64 `json:"sick_leave_balance"`
	ToilBalanceHours   float64 `json:"toil_balance_hours"`
}
