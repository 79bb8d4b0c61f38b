package actions

// SettingsLoader fetches the last used transfer request as form fields.
type SettingsLoader interface {
	LoadLastTransfer() (map[string]string, error)
}

// SettingsSaver persists the last used transfer request as form fields.
type SettingsSaver interface {
	SaveLastTransfer(fields map[string]string) error
}

type SettingsLoaderSaver interface {
	SettingsLoader
	SettingsSaver
}
