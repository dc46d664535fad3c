package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	BaseUUIDModel
	DealershipID uuid.UUID `gorm:"type:uuid;not null;index" json:"dealershipId"`
	FirstName    string    `gorm:"type:text"                json:"firstName"`
	LastName     string    `gorm:"type:text"                json:"lastName"`
	FullName     string    `gorm:"type:text"                json:"fullName"`
	DisplayName  string    `gorm:"type:text"                json:"displayName"`
	Initials     string    `gorm:"type:text"                json:"initials"`
	Email        *string   `gorm:"type:text;uniqueIndex"    json:"email"`
	Role         string    `gorm:"type:text;default:tech"   json:"role"`
	IsAdmin      bool      `gorm:"type:bool;default:false"  json:"isAdmin"`
	IsActive     bool      `gorm:"type:bool;default:true"   json:"isActive"`

	// OIDC integration fields
	OIDCUserID      string     `gorm:"column:oidc_user_id;type:text;uniqueIndex" json:"-"`
	OIDCProvider    *string    `gorm:"column:oidc_provider;type:text"            json:"oidcProvider,omitempty"`
	LastLoginAt     *time.Time `gorm:"type:timestamp"                            json:"lastLoginAt,omitempty"`
	ProfileVerified bool       `gorm:"type:bool;default:false"                   json:"profileVerified"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	fullName := strings.TrimSpace(u.FirstName + " " + u.LastName)
	u.FullName = fullName
	if u.DisplayName == "" {
		u.DisplayName = fullName
	}
	if u.Initials == "" {
		u.Initials = DeriveInitials(u.FirstName, u.LastName)
	}
	return nil
}

// DeriveInitials builds display initials from name components. Falls back to
// the first two letters of whichever component is present.
func DeriveInitials(firstName, lastName string) string {
	first := strings.TrimSpace(firstName)
	last := strings.TrimSpace(lastName)

	switch {
	case first != "" && last != "":
		return strings.ToUpper(first[:1] + last[:1])
	case first != "":
		if len(first) >= 2 {
			return strings.ToUpper(first[:2])
		}
		return strings.ToUpper(first)
	case last != "":
		if len(last) >= 2 {
			return strings.ToUpper(last[:2])
		}
		return strings.ToUpper(last)
	default:
		return ""
	}
}

// AuditAuthor returns the identity stamped onto generated team notes,
// preferring display initials over the raw OIDC identifier.
func (u *User) AuditAuthor() string {
	if u.Initials != "" {
		return u.Initials
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.OIDCUserID
}

// OIDCUserCreateRequest represents data for creating a user from OIDC claims
type OIDCUserCreateRequest struct {
	OIDCUserID      string  `json:"oidcUserId"`
	Email           *string `json:"email,omitempty"`
	Name            *string `json:"name,omitempty"`
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	OIDCProvider    string  `json:"oidcProvider"`
	ProfileVerified bool    `json:"profileVerified"`
}

// UserProfile represents public user profile information
type UserProfile struct {
	ID              string     `json:"id"`
	DealershipID    string     `json:"dealershipId"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	FullName        string     `json:"fullName"`
	DisplayName     string     `json:"displayName"`
	Initials        string     `json:"initials"`
	Email           *string    `json:"email,omitempty"`
	Role            string     `json:"role"`
	IsActive        bool       `json:"isActive"`
	IsAdmin         bool       `json:"isAdmin"`
	LastLoginAt     *time.Time `json:"lastLoginAt,omitempty"`
	ProfileVerified bool       `json:"profileVerified"`
}

// ToProfile converts a User to a UserProfile (public information only)
func (u *User) ToProfile() UserProfile {
	return UserProfile{
		ID:              u.ID.String(),
		DealershipID:    u.DealershipID.String(),
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		FullName:        u.FullName,
		DisplayName:     u.DisplayName,
		Initials:        u.Initials,
		Email:           u.Email,
		Role:            u.Role,
		IsActive:        u.IsActive,
		IsAdmin:         u.IsAdmin,
		LastLoginAt:     u.LastLoginAt,
		ProfileVerified: u.ProfileVerified,
	}
}

// UpdateFromOIDC updates user information from OIDC claims
func (u *User) UpdateFromOIDC(oidcUserID string, oidcEmail, oidcName *string, firstName, lastName, provider string, emailVerified bool) {
	now := time.Now()
	u.LastLoginAt = &now

	if oidcUserID != "" {
		u.OIDCUserID = oidcUserID
	}

	if oidcEmail != nil && *oidcEmail != "" {
		u.Email = oidcEmail
	}

	if firstName != "" {
		u.FirstName = firstName
	}
	if lastName != "" {
		u.LastName = lastName
	}

	if firstName != "" || lastName != "" {
		u.FullName = strings.TrimSpace(firstName + " " + lastName)
		u.Initials = DeriveInitials(u.FirstName, u.LastName)
	}

	if oidcName != nil && *oidcName != "" {
		u.DisplayName = *oidcName
	} else if u.FullName != "" {
		u.DisplayName = u.FullName
	}

	if provider != "" {
		providerPtr := &provider
		u.OIDCProvider = providerPtr
	}

	if emailVerified && oidcEmail != nil && *oidcEmail != "" {
		u.ProfileVerified = true
	}
}
