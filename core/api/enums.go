package api

import (
	"fmt"

	"github.com/goccy/go-json"
)

// GoalDataStatus is the state of a goal revision. It is stored as a small
// integer and exchanged by name.
type GoalDataStatus int64

// all goal data states
const (
	GoalDataStatusPending GoalDataStatus = 0
	GoalDataStatusSucceed GoalDataStatus = 1
	GoalDataStatusFail    GoalDataStatus = 2
	GoalDataStatusCancel  GoalDataStatus = 3
)

var goalDataStatusNames = map[GoalDataStatus]string{
	GoalDataStatusPending: "PENDING",
	GoalDataStatusSucceed: "SUCCEED",
	GoalDataStatusFail:    "FAIL",
	GoalDataStatusCancel:  "CANCEL",
}

// ParseGoalDataStatus decodes a stored value
func ParseGoalDataStatus(v int64) (GoalDataStatus, error) {
	s := GoalDataStatus(v)
	if _, ok := goalDataStatusNames[s]; !ok {
		return 0, fmt.Errorf("%d is not a valid goal data status", v)
	}
	return s, nil
}

func (s GoalDataStatus) String() string {
	if name, ok := goalDataStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("GoalDataStatus(%d)", int64(s))
}

// MarshalJSON is a custom JSON marshaller
func (s GoalDataStatus) MarshalJSON() ([]byte, error) {
	name, ok := goalDataStatusNames[s]
	if !ok {
		return nil, fmt.Errorf("%d is not a valid goal data status", int64(s))
	}
	return json.Marshal(name)
}

// UnmarshalJSON is a custom JSON unmarshaller
func (s *GoalDataStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for k, v := range goalDataStatusNames {
		if v == name {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("%s is not a valid goal data status", name)
}

// NamedEntityKind classifies a named entity
type NamedEntityKind int64

// all named entity kinds
const (
	NamedEntityKindPerson       NamedEntityKind = 0
	NamedEntityKindLocation     NamedEntityKind = 1
	NamedEntityKindOrganization NamedEntityKind = 2
	NamedEntityKindEvent        NamedEntityKind = 3
)

var namedEntityKindNames = map[NamedEntityKind]string{
	NamedEntityKindPerson:       "PERSON",
	NamedEntityKindLocation:     "LOCATION",
	NamedEntityKindOrganization: "ORGANIZATION",
	NamedEntityKindEvent:        "EVENT",
}

// ParseNamedEntityKind decodes a stored value
func ParseNamedEntityKind(v int64) (NamedEntityKind, error) {
	k := NamedEntityKind(v)
	if _, ok := namedEntityKindNames[k]; !ok {
		return 0, fmt.Errorf("%d is not a valid named entity kind", v)
	}
	return k, nil
}

func (k NamedEntityKind) String() string {
	if name, ok := namedEntityKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("NamedEntityKind(%d)", int64(k))
}

// MarshalJSON is a custom JSON marshaller
func (k NamedEntityKind) MarshalJSON() ([]byte, error) {
	name, ok := namedEntityKindNames[k]
	if !ok {
		return nil, fmt.Errorf("%d is not a valid named entity kind", int64(k))
	}
	return json.Marshal(name)
}

// UnmarshalJSON is a custom JSON unmarshaller
func (k *NamedEntityKind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for key, v := range namedEntityKindNames {
		if v == name {
			*k = key
			return nil
		}
	}
	return fmt.Errorf("%s is not a valid named entity kind", name)
}
