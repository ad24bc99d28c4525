package usecase

import (
	"finance-tracker/internal/data/repository"
	"finance-tracker/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	OTP       OTPService
	Auth      AuthService
	Record    RecordService
	Dashboard DashboardService
}

func NewService(repo *repository.Repository, notifier OTPNotifier, config *utils.Config, log *zap.Logger) *Service {
	otp := NewOTPService(repo.OTP, notifier, config.OTP, log)
	return &Service{
		OTP:       otp,
		Auth:      NewAuthService(repo, otp, config, log),
		Record:    NewRecordService(repo, log),
		Dashboard: NewDashboardService(repo, log),
	}
}
