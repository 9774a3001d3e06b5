package service

import "fmt"

const (
	verificationSubject = "Email Verification - Karibu Kenya"
	resetSubject        = "Password Reset - Karibu Kenya"
)

func verificationEmailBody(frontendURL, token string) string {
	return fmt.Sprintf(`
<h2>Welcome to Karibu Kenya!</h2>
<p>Please click the link below to verify your email address:</p>
<a href="%s/verify-email/%s"
   style="background-color: #4CAF50; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">
  Verify Email
</a>
<p>This link will expire in 24 hours.</p>
<p>If you didn't create an account, please ignore this email.</p>
`, frontendURL, token)
}

func resetEmailBody(frontendURL, token string) string {
	return fmt.Sprintf(`
<h2>Password Reset Request</h2>
<p>You have requested a password reset. Please click the link below to reset your password:</p>
<a href="%s/reset-password/%s"
   style="background-color: #4CAF50; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">
  Reset Password
</a>
<p>This link will expire in 10 minutes.</p>
<p>If you didn't request this, please ignore this email.</p>
`, frontendURL, token)
}
