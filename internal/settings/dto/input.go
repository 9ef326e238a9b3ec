package dto

import "github.com/fekuna/omnipos-wms-service/internal/model"

// UpdateSettingsInput is a per-section patch. Sections and fields left nil keep
// their current values.
type UpdateSettingsInput struct {
	Profile      *ProfilePatch      `json:"profile"`
	Security     *SecurityPatch     `json:"security"`
	Preference   *PreferencePatch   `json:"preference"`
	Notification *NotificationPatch `json:"notification"`
	Integration  *IntegrationPatch  `json:"integration"`
}

type ProfilePatch struct {
	Nama     *string `json:"nama"`
	Email    *string `json:"email"`
	Username *string `json:"username"`
	Role     *string `json:"role"`
}

type SecurityPatch struct {
	TwoFactor  *bool   `json:"twoFactor"`
	LoginAlert *bool   `json:"loginAlert"`
	OTPHint    *string `json:"otpHint"`
}

type PreferencePatch struct {
	Language *string `json:"language"`
	Currency *string `json:"currency"`
	Theme    *string `json:"theme"`
}

type NotificationPatch struct {
	Email *bool `json:"email"`
	SMS   *bool `json:"sms"`
	Push  *bool `json:"push"`
}

type IntegrationPatch struct {
	Webhooks *string `json:"webhooks"`
	APIKey   *string `json:"apiKey"`
}

// Apply returns current with the patch laid over it. current is not modified.
func (in *UpdateSettingsInput) Apply(current model.Settings) model.Settings {
	out := current
	if p := in.Profile; p != nil {
		setString(&out.Profile.Nama, p.Nama)
		setString(&out.Profile.Email, p.Email)
		setString(&out.Profile.Username, p.Username)
		setString(&out.Profile.Role, p.Role)
	}
	if s := in.Security; s != nil {
		setBool(&out.Security.TwoFactor, s.TwoFactor)
		setBool(&out.Security.LoginAlert, s.LoginAlert)
		setString(&out.Security.OTPHint, s.OTPHint)
	}
	if p := in.Preference; p != nil {
		setString(&out.Preference.Language, p.Language)
		setString(&out.Preference.Currency, p.Currency)
		setString(&out.Preference.Theme, p.Theme)
	}
	if n := in.Notification; n != nil {
		setBool(&out.Notification.Email, n.Email)
		setBool(&out.Notification.SMS, n.SMS)
		setBool(&out.Notification.Push, n.Push)
	}
	if i := in.Integration; i != nil {
		setString(&out.Integration.Webhooks, i.Webhooks)
		setString(&out.Integration.APIKey, i.APIKey)
	}
	return out
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
