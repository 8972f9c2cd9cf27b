package raildata

import (
	"encoding/json"
	"strconv"
)

// TrainRunID is the canonical integer form of a trainDirDayId
type TrainRunID int64

func (id TrainRunID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// CanonicalTrainRunID is the single coercion rule for train run identifiers.
// 123, 123.0 and "123" all map to TrainRunID(123). Null, zero and
// non-numeric values are not identifiers.
func CanonicalTrainRunID(raw json.RawMessage) (TrainRunID, bool) {
	n, ok := TruncateInt(raw)
	if !ok || n == 0 {
		return 0, false
	}

	return TrainRunID(n), true
}

// TrainRun is one scheduled departure found by the route search endpoint.
// Values are kept exactly as the API reported them.
type TrainRun struct {
	TrainDirDayID  json.RawMessage `json:"trainDirDayId"`
	TrainCode      json.RawMessage `json:"trainCode"`
	TrainID        json.RawMessage `json:"trainId"`
	StartTrainDate json.RawMessage `json:"startTrainDate"`
}

func (t TrainRun) ID() (TrainRunID, bool) {
	return CanonicalTrainRunID(t.TrainDirDayID)
}
