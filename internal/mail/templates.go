package mail

import (
	"fmt"
	"net/url"
	"strings"
)

// ActionLink builds "<base><path>?token=<token>", falling back to a
// relative link when no public URL is configured.
func ActionLink(baseURL, path, token string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return fmt.Sprintf("%s%s?token=%s", base, path, url.QueryEscape(token))
}

// VerificationEmail is sent after sign-up and on request.
func VerificationEmail(to, name, link string) Message {
	return Message{
		To:      to,
		Subject: "Verify your SplitzyTip email",
		Body: fmt.Sprintf("Hi %s,\n\nConfirm your email address to start using SplitzyTip:\n%s\n\nIf you did not sign up, you can ignore this message.\n",
			greetingName(name), link),
		Link: link,
	}
}

// PasswordResetEmail carries a single-use password reset link.
func PasswordResetEmail(to, name, link string) Message {
	return Message{
		To:      to,
		Subject: "Reset your SplitzyTip password",
		Body: fmt.Sprintf("Hi %s,\n\nUse this link to choose a new password:\n%s\n\nIf you did not ask for a reset, you can ignore this message.\n",
			greetingName(name), link),
		Link: link,
	}
}

func greetingName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "there"
	}
	return name
}
