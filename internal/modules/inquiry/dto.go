package inquiry

type CreateInquiryRequest struct {
	HallID  int64  `json:"hall_id" validate:"required,gt=0"`
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=120"`
	Phone   string `json:"phone" validate:"omitempty,max=20"`
	Message string `json:"message" validate:"required,max=2000"`
}
