package model

// Settings is the singleton configuration document persisted outside the relational store.
type Settings struct {
	Profile      ProfileSettings      `json:"profile"`
	Security     SecuritySettings     `json:"security"`
	Preference   PreferenceSettings   `json:"preference"`
	Notification NotificationSettings `json:"notification"`
	Integration  IntegrationSettings  `json:"integration"`
}

type ProfileSettings struct {
	Nama     string `json:"nama"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type SecuritySettings struct {
	TwoFactor  bool   `json:"twoFactor"`
	LoginAlert bool   `json:"loginAlert"`
	OTPHint    string `json:"otpHint"`
}

type PreferenceSettings struct {
	Language string `json:"language"`
	Currency string `json:"currency"`
	Theme    string `json:"theme"`
}

type NotificationSettings struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
	Push  bool `json:"push"`
}

type IntegrationSettings struct {
	Webhooks string `json:"webhooks"`
	APIKey   string `json:"apiKey"`
}

func DefaultSettings() Settings {
	return Settings{
		Profile: ProfileSettings{
			Nama:     "Admin User",
			Email:    "admin@example.com",
			Username: "admin",
			Role:     "admin",
		},
		Security: SecuritySettings{
			TwoFactor:  false,
			LoginAlert: true,
			OTPHint:    "Gunakan kode 246810 untuk demo",
		},
		Preference: PreferenceSettings{
			Language: "id",
			Currency: "IDR",
			Theme:    "dark",
		},
		Notification: NotificationSettings{
			Email: true,
			SMS:   false,
			Push:  true,
		},
		Integration: IntegrationSettings{
			APIKey: "wms-demo-api-key",
		},
	}
}
