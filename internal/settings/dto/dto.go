package dto

import "github.com/fekuna/omnipos-wms-service/internal/model"

// PublicSettings is what unauthenticated clients may read before login.
type PublicSettings struct {
	Preference model.PreferenceSettings `json:"preference"`
	Security   PublicSecurity           `json:"security"`
}

type PublicSecurity struct {
	TwoFactor  bool   `json:"twoFactor"`
	OTPHint    string `json:"otpHint"`
	LoginAlert bool   `json:"loginAlert"`
}

func ToPublic(s model.Settings) PublicSettings {
	return PublicSettings{
		Preference: s.Preference,
		Security: PublicSecurity{
			TwoFactor:  s.Security.TwoFactor,
			OTPHint:    s.Security.OTPHint,
			LoginAlert: s.Security.LoginAlert,
		},
	}
}
