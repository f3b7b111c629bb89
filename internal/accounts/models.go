package accounts

import (
	"encoding/json"
	"time"
)

// Account represents a single entry of the account table
type Account struct {
	ID          string    `json:"id"`
	Secret      string    `json:"-"`
	DisplayName string    `json:"displayName"`
	Note        string    `json:"note"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// CreatedView is returned by a successful signup. It never carries the secret.
type CreatedView struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// ProfileView is returned by a read. Note is omitted when empty.
type ProfileView struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Note        string `json:"note,omitempty"`
}

// UpdatedView is returned by an update. Note is always present.
type UpdatedView struct {
	DisplayName string `json:"displayName"`
	Note        string `json:"note"`
}

// CreateAccountRequest represents the signup payload
type CreateAccountRequest struct {
	ID     string `json:"id" validate:"required,accountid"`
	Secret string `json:"secret" validate:"required,secretchars"`
}

// UpdateAccountRequest represents the PATCH payload. ID and Secret are only
// decoded so that their presence can be rejected, an explicit null included.
type UpdateAccountRequest struct {
	DisplayName *string         `json:"displayName" validate:"omitempty,max=30"`
	Note        *string         `json:"note" validate:"omitempty,max=100"`
	ID          json.RawMessage `json:"id,omitempty"`
	Secret      json.RawMessage `json:"secret,omitempty"`
}

// Patch is the set of changes applied by UpdateAccount
type Patch struct {
	DisplayName *string
	Note        *string
	// Immutable lists the names of immutable fields found in the payload
	Immutable []string
}

// Patch converts the decoded payload into a Patch
func (r *UpdateAccountRequest) Patch() Patch {
	p := Patch{
		DisplayName: r.DisplayName,
		Note:        r.Note,
	}
	if len(r.ID) > 0 {
		p.Immutable = append(p.Immutable, "id")
	}
	if len(r.Secret) > 0 {
		p.Immutable = append(p.Immutable, "secret")
	}
	return p
}

// Credentials is the (id, secret) pair claimed by a caller
type Credentials struct {
	ID     string
	Secret string
	// Present is false when the request carried no usable Basic credentials
	Present bool
}

func (a *Account) createdView() *CreatedView {
	return &CreatedView{ID: a.ID, DisplayName: a.DisplayName}
}

func (a *Account) profileView() *ProfileView {
	return &ProfileView{ID: a.ID, DisplayName: a.DisplayName, Note: a.Note}
}

func (a *Account) updatedView() *UpdatedView {
	return &UpdatedView{DisplayName: a.DisplayName, Note: a.Note}
}
