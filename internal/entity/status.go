package entity

type AssetStatus string

const (
	StatusPendingUpload AssetStatus = "PENDING_UPLOAD"
	StatusUploaded      AssetStatus = "UPLOADED"
)

// таблица допустимых переходов жизненного цикла
var transitions = map[AssetStatus]map[AssetStatus]bool{
	StatusPendingUpload: {StatusUploaded: true},
	StatusUploaded:      {StatusPendingUpload: true},
}

func (s AssetStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s AssetStatus) CanTransitionTo(next AssetStatus) bool {
	return transitions[s][next]
}
