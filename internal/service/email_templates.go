package service

import "fmt"

func verificationEmailTemplate(verifyURL, appName string) (string, string) {
	subject := fmt.Sprintf("Verify your email for %s", appName)
	body := fmt.Sprintf(`Welcome to %s!

Please confirm your email address by clicking this link:
%s

This link expires in 24 hours and can only be used once.

If you didn't create an account, you can safely ignore this email.

Best,
The %s Team`, appName, verifyURL, appName)

	return subject, body
}

func passwordResetEmailTemplate(resetURL, appName string) (string, string) {
	subject := fmt.Sprintf("Reset your password for %s", appName)
	body := fmt.Sprintf(`You requested to reset your password. Use this link to choose a new one:
%s

This link expires in 1 hour and can only be used once.

If you didn't request this, you can safely ignore this email. Your password won't be changed.

Best,
The %s Team`, resetURL, appName)

	return subject, body
}
