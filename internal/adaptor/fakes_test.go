package adaptor

import (
	"context"

	"finance-tracker/internal/data/entity"
	"finance-tracker/internal/dto/request"
	"finance-tracker/internal/dto/response"
	"finance-tracker/internal/usecase"
)

type fakeAuthService struct {
	registerErr error

	loginResp *response.ChallengeResponse
	loginErr  error
	loginNext string

	verifyResp  *response.LoginResponse
	verifyErr   error
	verifyToken string
	verifyCode  string

	resendErr  error
	resendFlow entity.OTPFlow

	forgotResp *response.ChallengeResponse
	forgotErr  error

	verifyResetErr error
	resetAllowed   error
	resetErr       error

	loggedOut string
}

func (f *fakeAuthService) Register(_ context.Context, req *request.RegisterRequest) (*entity.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &entity.User{UserID: 1, Email: req.Email}, nil
}

func (f *fakeAuthService) Login(_ context.Context, _ *request.LoginRequest, next string) (*response.ChallengeResponse, error) {
	f.loginNext = next
	return f.loginResp, f.loginErr
}

func (f *fakeAuthService) VerifyLogin(_ context.Context, token, code string, _ usecase.ClientInfo) (*response.LoginResponse, error) {
	f.verifyToken, f.verifyCode = token, code
	return f.verifyResp, f.verifyErr
}

func (f *fakeAuthService) ResendOTP(_ context.Context, _ string, flow entity.OTPFlow) error {
	f.resendFlow = flow
	return f.resendErr
}

func (f *fakeAuthService) ForgotPassword(_ context.Context, _ *request.ForgotPasswordRequest) (*response.ChallengeResponse, error) {
	return f.forgotResp, f.forgotErr
}

func (f *fakeAuthService) VerifyResetOTP(_ context.Context, _, _ string) error {
	return f.verifyResetErr
}

func (f *fakeAuthService) CheckResetAllowed(_ context.Context, _ string) error {
	return f.resetAllowed
}

func (f *fakeAuthService) ResetPassword(_ context.Context, _ string, _ *request.ResetPasswordRequest) error {
	return f.resetErr
}

func (f *fakeAuthService) Logout(_ context.Context, token string) error {
	f.loggedOut = token
	return nil
}

func (f *fakeAuthService) PurgeExpiredSessions(_ context.Context) (int64, error) {
	return 0, nil
}

type fakeDashboardService struct {
	dashboard *response.Dashboard
	err       error
	filter    request.DashboardFilter
}

func (f *fakeDashboardService) Dashboard(_ context.Context, _ int64, filter request.DashboardFilter) (*response.Dashboard, error) {
	f.filter = filter
	if f.err != nil {
		return nil, f.err
	}
	return f.dashboard, nil
}

func (f *fakeDashboardService) Options(_ context.Context) (*response.Dashboard, error) {
	return &response.Dashboard{
		Categories:     []*entity.Category{{CategoryID: 1, Name: "Groceries"}},
		Lenders:        entity.Lenders,
		LoanCategories: entity.LoanCategories,
	}, nil
}

type fakeRecordService struct {
	err     error
	expense *request.ExpenseRequest
	loan    *request.LoanRequest
}

func (f *fakeRecordService) AddExpense(_ context.Context, _ int64, req *request.ExpenseRequest) (*entity.Expense, error) {
	f.expense = req
	if f.err != nil {
		return nil, f.err
	}
	return &entity.Expense{ExpenseID: 1, Amount: req.Amount}, nil
}

func (f *fakeRecordService) AddLoan(_ context.Context, _ int64, req *request.LoanRequest) (*entity.Loan, error) {
	f.loan = req
	if f.err != nil {
		return nil, f.err
	}
	return &entity.Loan{LoanID: 1}, nil
}

func (f *fakeRecordService) AddInsurance(_ context.Context, _ int64, _ *request.InsuranceRequest) (*entity.Insurance, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &entity.Insurance{InsuranceID: 1}, nil
}

func (f *fakeRecordService) SeedCategories(_ context.Context) error {
	return nil
}
