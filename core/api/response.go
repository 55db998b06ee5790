package api

import "github.com/goccy/go-json"

// Envelope is the body of every API response. Exactly one of Ok and Err is set.
type Envelope struct {
	Ok  json.RawMessage `json:"Ok,omitempty"`
	Err ErrorKind       `json:"Err,omitempty"`
}

// Info describes the running service
type Info struct {
	Service      string `json:"service"`
	VersionMajor int64  `json:"versionMajor"`
	VersionMinor int64  `json:"versionMinor"`
	VersionRev   int64  `json:"versionRev"`
}

// User is the account owning an API key, as reported by the auth service
type User struct {
	UserID       int64 `json:"userId"`
	CreationTime int64 `json:"creationTime"`
}

// Goal is a goal together with its latest revision
type Goal struct {
	GoalID        int64         `json:"goalId"`
	CreationTime  int64         `json:"creationTime"`
	CreatorUserID int64         `json:"creatorUserId"`
	Latest        *GoalRevision `json:"latest"`
}

// GoalRevision is the flat form of a goal revision, embedded in Goal
type GoalRevision struct {
	GoalDataID            int64          `json:"goalDataId"`
	CreationTime          int64          `json:"creationTime"`
	Name                  string         `json:"name"`
	DurationEstimate      *int64         `json:"durationEstimate"`
	TimeUtilityFunctionID int64          `json:"timeUtilityFunctionId"`
	Status                GoalDataStatus `json:"status"`
}

// GoalData is one revision of a goal
type GoalData struct {
	GoalDataID          int64               `json:"goalDataId"`
	CreationTime        int64               `json:"creationTime"`
	CreatorUserID       int64               `json:"creatorUserId"`
	Goal                Goal                `json:"goal"`
	Name                string              `json:"name"`
	DurationEstimate    *int64              `json:"durationEstimate"`
	TimeUtilityFunction TimeUtilityFunction `json:"timeUtilityFunction"`
	Status              GoalDataStatus      `json:"status"`
}

// GoalEvent schedules a goal into a time span
type GoalEvent struct {
	GoalEventID   int64 `json:"goalEventId"`
	CreationTime  int64 `json:"creationTime"`
	CreatorUserID int64 `json:"creatorUserId"`
	Goal          Goal  `json:"goal"`
	StartTime     int64 `json:"startTime"`
	EndTime       int64 `json:"endTime"`
	Active        bool  `json:"active"`
}

// GoalDependency states that Goal depends on DependentGoal
type GoalDependency struct {
	GoalDependencyID int64 `json:"goalDependencyId"`
	CreationTime     int64 `json:"creationTime"`
	CreatorUserID    int64 `json:"creatorUserId"`
	Goal             Goal  `json:"goal"`
	DependentGoal    Goal  `json:"dependentGoal"`
	Active           bool  `json:"active"`
}

// GoalEntityTag tags a goal with a named entity
type GoalEntityTag struct {
	GoalEntityTagID int64       `json:"goalEntityTagId"`
	CreationTime    int64       `json:"creationTime"`
	CreatorUserID   int64       `json:"creatorUserId"`
	Goal            Goal        `json:"goal"`
	NamedEntity     NamedEntity `json:"namedEntity"`
	Active          bool        `json:"active"`
}

// TimeUtilityFunction is a step function mapping time to utility
type TimeUtilityFunction struct {
	TimeUtilityFunctionID int64   `json:"timeUtilityFunctionId"`
	CreationTime          int64   `json:"creationTime"`
	CreatorUserID         int64   `json:"creatorUserId"`
	StartTimes            []int64 `json:"startTimes"`
	Utils                 []int64 `json:"utils"`
}

// GoalTemplate is a goal template together with its latest revision
type GoalTemplate struct {
	GoalTemplateID int64                 `json:"goalTemplateId"`
	CreationTime   int64                 `json:"creationTime"`
	CreatorUserID  int64                 `json:"creatorUserId"`
	Latest         *GoalTemplateRevision `json:"latest"`
}

// GoalTemplateRevision is the flat form of a goal template revision
type GoalTemplateRevision struct {
	GoalTemplateDataID  int64  `json:"goalTemplateDataId"`
	CreationTime        int64  `json:"creationTime"`
	Name                string `json:"name"`
	Utility             int64  `json:"utility"`
	DurationEstimate    *int64 `json:"durationEstimate"`
	UserGeneratedCodeID int64  `json:"userGeneratedCodeId"`
	Active              bool   `json:"active"`
}

// GoalTemplateData is one revision of a goal template
type GoalTemplateData struct {
	GoalTemplateDataID int64             `json:"goalTemplateDataId"`
	CreationTime       int64             `json:"creationTime"`
	CreatorUserID      int64             `json:"creatorUserId"`
	GoalTemplate       GoalTemplate      `json:"goalTemplate"`
	Name               string            `json:"name"`
	Utility            int64             `json:"utility"`
	DurationEstimate   *int64            `json:"durationEstimate"`
	UserGeneratedCode  UserGeneratedCode `json:"userGeneratedCode"`
	Active             bool              `json:"active"`
}

// GoalTemplatePattern attaches a pattern to a goal template
type GoalTemplatePattern struct {
	GoalTemplatePatternID int64        `json:"goalTemplatePatternId"`
	CreationTime          int64        `json:"creationTime"`
	CreatorUserID         int64        `json:"creatorUserId"`
	GoalTemplate          GoalTemplate `json:"goalTemplate"`
	Pattern               string       `json:"pattern"`
	Active                bool         `json:"active"`
}

// UserGeneratedCode is user supplied source code with its compiled artifact
type UserGeneratedCode struct {
	UserGeneratedCodeID int64  `json:"userGeneratedCodeId"`
	CreationTime        int64  `json:"creationTime"`
	CreatorUserID       int64  `json:"creatorUserId"`
	SourceCode          string `json:"sourceCode"`
	SourceLang          string `json:"sourceLang"`
	WasmCache           []byte `json:"wasmCache"`
}

// NamedEntity is a named entity together with its latest revision
type NamedEntity struct {
	NamedEntityID int64                `json:"namedEntityId"`
	CreationTime  int64                `json:"creationTime"`
	CreatorUserID int64                `json:"creatorUserId"`
	Latest        *NamedEntityRevision `json:"latest"`
}

// NamedEntityRevision is the flat form of a named entity revision
type NamedEntityRevision struct {
	NamedEntityDataID int64           `json:"namedEntityDataId"`
	CreationTime      int64           `json:"creationTime"`
	Name              string          `json:"name"`
	Kind              NamedEntityKind `json:"kind"`
	Active            bool            `json:"active"`
}

// NamedEntityData is one revision of a named entity
type NamedEntityData struct {
	NamedEntityDataID int64           `json:"namedEntityDataId"`
	CreationTime      int64           `json:"creationTime"`
	CreatorUserID     int64           `json:"creatorUserId"`
	NamedEntity       NamedEntity     `json:"namedEntity"`
	Name              string          `json:"name"`
	Kind              NamedEntityKind `json:"kind"`
	Active            bool            `json:"active"`
}

// NamedEntityPattern attaches a pattern to a named entity
type NamedEntityPattern struct {
	NamedEntityPatternID int64       `json:"namedEntityPatternId"`
	CreationTime         int64       `json:"creationTime"`
	CreatorUserID        int64       `json:"creatorUserId"`
	NamedEntity          NamedEntity `json:"namedEntity"`
	Pattern              string      `json:"pattern"`
	Active               bool        `json:"active"`
}

// ExternalEvent is an external event together with its latest revision
type ExternalEvent struct {
	ExternalEventID int64                  `json:"externalEventId"`
	CreationTime    int64                  `json:"creationTime"`
	CreatorUserID   int64                  `json:"creatorUserId"`
	Latest          *ExternalEventRevision `json:"latest"`
}

// ExternalEventRevision is the flat form of an external event revision
type ExternalEventRevision struct {
	ExternalEventDataID int64  `json:"externalEventDataId"`
	CreationTime        int64  `json:"creationTime"`
	Name                string `json:"name"`
	StartTime           int64  `json:"startTime"`
	EndTime             int64  `json:"endTime"`
	Active              bool   `json:"active"`
}

// ExternalEventData is one revision of an external event
type ExternalEventData struct {
	ExternalEventDataID int64         `json:"externalEventDataId"`
	CreationTime        int64         `json:"creationTime"`
	CreatorUserID       int64         `json:"creatorUserId"`
	ExternalEvent       ExternalEvent `json:"externalEvent"`
	Name                string        `json:"name"`
	StartTime           int64         `json:"startTime"`
	EndTime             int64         `json:"endTime"`
	Active              bool          `json:"active"`
}
