package email

// Config holds email service configuration.
// Postmark tokens are optional to support development environments where the
// dev sender is used instead. SenderEmail establishes the sender identity and
// SupportEmail the reply-to behavior for all outbound emails.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL,required"`
	SupportEmail         string `env:"SUPPORT_EMAIL,required"`
	DevSenderDir         string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`
}
