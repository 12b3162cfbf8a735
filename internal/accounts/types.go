package accounts

import (
	"time"

	"github.com/imrishuroy/go-storefront/internal/identity"
)

// Account is a registered user, keyed by normalized email.
type Account struct {
	Email        string        `dynamodbav:"email" json:"email"`
	SubjectID    string        `dynamodbav:"subject_id" json:"id"`
	FullName     string        `dynamodbav:"full_name" json:"fullName"`
	PasswordHash string        `dynamodbav:"password_hash" json:"-"`
	Role         identity.Role `dynamodbav:"role" json:"role"`
	CreatedAt    time.Time     `dynamodbav:"created_at" json:"createdAt"`
	LastLoginAt  *time.Time    `dynamodbav:"last_login_at,omitempty" json:"lastLoginAt,omitempty"`
}

func (a Account) Subject() identity.Subject {
	return identity.Subject{ID: a.SubjectID, Role: a.Role}
}
