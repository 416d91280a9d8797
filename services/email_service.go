package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"gopkg.in/gomail.v2"

	"glowfeed-api/config"
)

type EmailService struct {
	config *config.Config
	dialer *gomail.Dialer

	// In-memory storage for verification codes
	verificationCodes map[string]VerificationCode
	mutex             sync.RWMutex
}

type VerificationCode struct {
	Code      string    `json:"code"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
}

func NewEmailService(cfg *config.Config) *EmailService {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)

	service := &EmailService{
		config:            cfg,
		dialer:            dialer,
		verificationCodes: make(map[string]VerificationCode),
	}

	// Start cleanup goroutine
	go service.cleanupExpiredCodes()

	return service
}

// Generate a random 4-digit verification code
func (es *EmailService) generateVerificationCode() string {
	const digits = "0123456789"
	code := make([]byte, 4)

	for i := range code {
		num, _ := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		code[i] = digits[num.Int64()]
	}

	return string(code)
}

// Send verification email
func (es *EmailService) SendVerificationEmail(email, name string) (string, error) {
	// Check if there's already a valid unused code
	es.mutex.RLock()
	existingCode, exists := es.verificationCodes[email]
	es.mutex.RUnlock()

	var code string
	if exists && !existingCode.Used && time.Now().Before(existingCode.ExpiresAt) {
		code = existingCode.Code
	} else {
		code = es.generateVerificationCode()

		// Store verification code (expires in 10 minutes)
		es.mutex.Lock()
		es.verificationCodes[email] = VerificationCode{
			Code:      code,
			Email:     email,
			ExpiresAt: time.Now().Add(10 * time.Minute),
			Used:      false,
		}
		es.mutex.Unlock()
	}

	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", es.config.FromName, es.config.FromEmail))
	m.SetHeader("To", email)
	m.SetHeader("Subject", "GlowFeed - Email Verification")

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Email Verification</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { text-align: center; background: #e75480; color: white; padding: 20px; border-radius: 10px 10px 0 0; }
        .content { background: #fdf4f7; padding: 30px; border-radius: 0 0 10px 10px; }
        .code { background: #f6e1e9; padding: 20px; text-align: center; border-radius: 8px; margin: 20px 0; }
        .code-number { font-size: 32px; font-weight: bold; color: #e75480; letter-spacing: 8px; }
        .footer { text-align: center; margin-top: 20px; color: #666; font-size: 14px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>GlowFeed</h1>
            <p>Email Verification</p>
        </div>
        <div class="content">
            <h2>Hello %s!</h2>
            <p>Welcome to GlowFeed! Please verify your email address to complete your registration.</p>
            <div class="code">
                <p><strong>Your verification code is:</strong></p>
                <div class="code-number">%s</div>
                <p><small>This code will expire in 10 minutes.</small></p>
            </div>
            <p>Enter this code in the GlowFeed app to verify your email address.</p>
            <p>If you didn't create an account with GlowFeed, please ignore this email.</p>
            <p><strong>The GlowFeed Team</strong></p>
        </div>
        <div class="footer">
            <p>This is an automated email, please do not reply.</p>
        </div>
    </div>
</body>
</html>`, name, code)

	textBody := fmt.Sprintf(`
Hello %s!

Welcome to GlowFeed! Please verify your email address to complete your registration.

Your verification code is: %s

This code will expire in 10 minutes.

If you didn't create an account with GlowFeed, please ignore this email.

The GlowFeed Team
    `, name, code)

	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	if err := es.dialer.DialAndSend(m); err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	fmt.Printf("Verification email sent to %s\n", email)
	return code, nil
}

// Verify the code
func (es *EmailService) VerifyCode(email, inputCode string) bool {
	es.mutex.RLock()
	storedCode, exists := es.verificationCodes[email]
	es.mutex.RUnlock()

	if !exists {
		return false
	}

	if storedCode.Used {
		return false
	}

	if time.Now().After(storedCode.ExpiresAt) {
		es.mutex.Lock()
		delete(es.verificationCodes, email)
		es.mutex.Unlock()
		return false
	}

	if storedCode.Code != inputCode {
		return false
	}

	// Mark as used
	es.mutex.Lock()
	storedCode.Used = true
	es.verificationCodes[email] = storedCode
	es.mutex.Unlock()

	return true
}

// Get verification code for testing/debugging
func (es *EmailService) GetVerificationCode(email string) string {
	es.mutex.RLock()
	defer es.mutex.RUnlock()

	if code, exists := es.verificationCodes[email]; exists && !code.Used && time.Now().Before(code.ExpiresAt) {
		return code.Code
	}
	return ""
}

// Cleanup expired verification codes
func (es *EmailService) cleanupExpiredCodes() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		es.mutex.Lock()
		now := time.Now()
		for email, code := range es.verificationCodes {
			if now.After(code.ExpiresAt) || code.Used {
				delete(es.verificationCodes, email)
			}
		}
		es.mutex.Unlock()
	}
}

// Send welcome email after successful verification
func (es *EmailService) SendWelcomeEmail(email, name string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", es.config.FromName, es.config.FromEmail))
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Welcome to GlowFeed!")

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Welcome to GlowFeed</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { text-align: center; background: linear-gradient(135deg, #e75480, #b83b68); color: white; padding: 30px; border-radius: 10px 10px 0 0; }
        .content { background: #fdf4f7; padding: 30px; border-radius: 0 0 10px 10px; }
        .feature { background: white; padding: 20px; margin: 15px 0; border-radius: 8px; border-left: 4px solid #e75480; }
        .footer { text-align: center; margin-top: 20px; color: #666; font-size: 14px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Welcome to GlowFeed!</h1>
            <p>Your personalized beauty feed is ready</p>
        </div>
        <div class="content">
            <h2>Hello %s!</h2>
            <p>Your email has been verified and your GlowFeed account is now active.</p>
            <div class="feature">
                <h4>Personalized Feed</h4>
                <p>Tell us your vibe and favorite brands and we'll rank your feed around them.</p>
            </div>
            <div class="feature">
                <h4>Glow Assistant</h4>
                <p>Chat with Glow for routines, product picks and ingredient questions.</p>
            </div>
            <div class="feature">
                <h4>Ingredient Scans</h4>
                <p>Browse side-by-side ingredient breakdowns from the community.</p>
            </div>
            <p><strong>The GlowFeed Team</strong></p>
        </div>
        <div class="footer">
            <p>This is an automated email, please do not reply.</p>
        </div>
    </div>
</body>
</html>`, name)

	textBody := fmt.Sprintf(`
Hello %s!

Your email has been verified and your GlowFeed account is now active.

Set up your taste profile to personalize your feed, and say hi to Glow,
your beauty assistant.

The GlowFeed Team
    `, name)

	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	if err := es.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	return nil
}
