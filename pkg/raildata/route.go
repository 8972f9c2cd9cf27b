package raildata

import (
	"encoding/json"
	"fmt"
)

// RouteKey identifies a route independent of station codes
type RouteKey struct {
	Origin      string
	Destination string
	Direction   string
}

func (k RouteKey) String() string {
	return fmt.Sprintf("%s -> %s (%s)", k.Origin, k.Destination, k.Direction)
}

// Route is a matched origin/destination station pair.
// Fields the matcher added beyond the known ones are carried in Extra and
// written back out unchanged.
type Route struct {
	Origin                 string
	Destination            string
	Direction              string
	OriginStationCode      json.RawMessage
	DestinationStationCode json.RawMessage

	Extra map[string]json.RawMessage
}

var routeFields = []string{"origin", "destination", "direction", "originStationCode", "destinationStationCode"}

func (r Route) Key() RouteKey {
	return RouteKey{
		Origin:      r.Origin,
		Destination: r.Destination,
		Direction:   r.Direction,
	}
}

func (r *Route) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	r.Origin = String(fields["origin"])
	r.Destination = String(fields["destination"])
	r.Direction = String(fields["direction"])
	r.OriginStationCode = fields["originStationCode"]
	r.DestinationStationCode = fields["destinationStationCode"]

	for _, name := range routeFields {
		delete(fields, name)
	}
	if len(fields) > 0 {
		r.Extra = fields
	} else {
		r.Extra = nil
	}

	return nil
}

func (r Route) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.fields())
}

func (r Route) fields() map[string]any {
	fields := map[string]any{}
	for name, value := range r.Extra {
		fields[name] = value
	}

	fields["origin"] = r.Origin
	fields["destination"] = r.Destination
	fields["direction"] = r.Direction
	fields["originStationCode"] = NullIfEmpty(r.OriginStationCode)
	fields["destinationStationCode"] = NullIfEmpty(r.DestinationStationCode)

	return fields
}

// NullIfEmpty substitutes a JSON null for a missing raw value
func NullIfEmpty(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}

// SearchResult is a Route annotated with the trains the search endpoint returned
type SearchResult struct {
	Route

	Error      string
	TrainCount int
	Trains     []TrainRun
}

func (s SearchResult) MarshalJSON() ([]byte, error) {
	fields := s.Route.fields()

	if s.Error != "" {
		fields["error"] = s.Error
	}
	fields["trainCount"] = s.TrainCount

	trains := s.Trains
	if trains == nil {
		trains = []TrainRun{}
	}
	fields["trains"] = trains

	return json.Marshal(fields)
}

func (s *SearchResult) UnmarshalJSON(data []byte) error {
	if err := s.Route.UnmarshalJSON(data); err != nil {
		return err
	}

	var annotations struct {
		Error      *string         `json:"error"`
		TrainCount json.RawMessage `json:"trainCount"`
		Trains     []TrainRun      `json:"trains"`
	}
	if err := json.Unmarshal(data, &annotations); err != nil {
		return err
	}

	s.Error = ""
	if annotations.Error != nil {
		s.Error = *annotations.Error
	}
	count, _ := TruncateInt(annotations.TrainCount)
	s.TrainCount = int(count)
	s.Trains = annotations.Trains

	for _, name := range []string{"error", "trainCount", "trains"} {
		delete(s.Route.Extra, name)
	}
	if len(s.Route.Extra) == 0 {
		s.Route.Extra = nil
	}

	return nil
}
