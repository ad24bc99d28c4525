package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var otpTemplate = template.Must(template.ParseFS(templateFS, "templates/otp_email.html"))

var securityTips = []string{
	"Never share this code with anyone",
	"We will never ask for this code via phone or email",
	"If you didn't request this, please ignore this email",
}

// OTPMailer renders verification-code emails and hands them to a Sender.
type OTPMailer struct {
	sender  Sender
	appName string
}

func NewOTPMailer(sender Sender, appName string) *OTPMailer {
	return &OTPMailer{sender: sender, appName: appName}
}

type otpEmailData struct {
	AppName       string
	Greeting      string
	OTPCode       string
	OTPDigits     []string
	Tagline       string
	ExpiryMinutes int
	SecurityTips  []string
	CallToAction  string
	TeamName      string
	FooterMessage string
}

// SendOTP emails code to the recipient. purpose is shown as the greeting line.
func (m *OTPMailer) SendOTP(ctx context.Context, to, code, purpose string, validFor time.Duration) error {
	msg, err := m.ComposeOTP(to, code, purpose, validFor)
	if err != nil {
		return err
	}
	return m.sender.Send(ctx, msg)
}

func (m *OTPMailer) ComposeOTP(to, code, purpose string, validFor time.Duration) (*Message, error) {
	minutes := int(validFor.Minutes())

	data := otpEmailData{
		AppName:       m.appName,
		Greeting:      purpose,
		OTPCode:       code,
		OTPDigits:     strings.Split(code, ""),
		Tagline:       "Secure your finances",
		ExpiryMinutes: minutes,
		SecurityTips:  securityTips,
		CallToAction:  fmt.Sprintf("Enter this code in your %s app to continue", m.appName),
		TeamName:      m.appName + " Team",
		FooterMessage: "This is an automated message. Please do not reply to this email.",
	}

	var html bytes.Buffer
	if err := otpTemplate.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("render otp email: %w", err)
	}

	text := fmt.Sprintf(`%[1]s - Verification Required

Your verification code is: %[2]s

This code will expire in %[3]d minutes.
Keep this code confidential and do not share it with anyone.

If you didn't request this code, please ignore this email.

Best regards,
%[1]s Team`, m.appName, code, minutes)

	return &Message{
		To:      to,
		Subject: fmt.Sprintf("🔐 %s - Your Verification Code", m.appName),
		Text:    text,
		HTML:    html.String(),
	}, nil
}
