package domain

type AdminSettings struct {
	RegisterEnabled     bool   `json:"registerIsEnable"`
	HistoryKeepVersions int    `json:"historyKeepVersions" validate:"gte=0,lte=1000"`
	HistorySaveDelay    string `json:"historySaveDelay" validate:"omitempty,duration"`
	SoftDeleteRetention string `json:"softDeleteRetentionTime" validate:"omitempty,duration"`
	FontSet             string `json:"fontSet" validate:"max=500"`
}
