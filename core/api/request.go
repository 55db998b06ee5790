package api

// TimeSpan is a [startTime, endTime] pair in milliseconds since epoch
type TimeSpan [2]int64

// Start returns the start time
func (t TimeSpan) Start() int64 { return t[0] }

// End returns the end time
func (t TimeSpan) End() int64 { return t[1] }

// GoalNewProps creates a goal together with its first revision
type GoalNewProps struct {
	APIKey                string    `json:"apiKey"`
	Name                  string    `json:"name"`
	DurationEstimate      *int64    `json:"durationEstimate,omitempty"`
	TimeUtilityFunctionID int64     `json:"timeUtilityFunctionId"`
	TimeSpan              *TimeSpan `json:"timeSpan,omitempty"`
}

// GoalDataNewProps creates a new revision of a goal
type GoalDataNewProps struct {
	APIKey                string         `json:"apiKey"`
	GoalID                int64          `json:"goalId"`
	Name                  string         `json:"name"`
	DurationEstimate      *int64         `json:"durationEstimate,omitempty"`
	TimeUtilityFunctionID int64          `json:"timeUtilityFunctionId"`
	Status                GoalDataStatus `json:"status"`
}

// GoalEventNewProps schedules a goal
type GoalEventNewProps struct {
	APIKey    string `json:"apiKey"`
	GoalID    int64  `json:"goalId"`
	StartTime int64  `json:"startTime"`
	EndTime   int64  `json:"endTime"`
	Active    bool   `json:"active"`
}

// GoalDependencyNewProps links a goal to a goal it depends on
type GoalDependencyNewProps struct {
	APIKey          string `json:"apiKey"`
	GoalID          int64  `json:"goalId"`
	DependentGoalID int64  `json:"dependentGoalId"`
	Active          bool   `json:"active"`
}

// GoalEntityTagNewProps tags a goal with a named entity
type GoalEntityTagNewProps struct {
	APIKey        string `json:"apiKey"`
	GoalID        int64  `json:"goalId"`
	NamedEntityID int64  `json:"namedEntityId"`
	Active        bool   `json:"active"`
}

// GoalTemplateNewProps creates a goal template together with its first revision
type GoalTemplateNewProps struct {
	APIKey              string `json:"apiKey"`
	Name                string `json:"name"`
	Utility             int64  `json:"utility"`
	DurationEstimate    *int64 `json:"durationEstimate,omitempty"`
	UserGeneratedCodeID int64  `json:"userGeneratedCodeId"`
}

// GoalTemplateDataNewProps creates a new revision of a goal template
type GoalTemplateDataNewProps struct {
	APIKey              string `json:"apiKey"`
	GoalTemplateID      int64  `json:"goalTemplateId"`
	Name                string `json:"name"`
	Utility             int64  `json:"utility"`
	DurationEstimate    *int64 `json:"durationEstimate,omitempty"`
	UserGeneratedCodeID int64  `json:"userGeneratedCodeId"`
	Active              bool   `json:"active"`
}

// GoalTemplatePatternNewProps attaches a pattern to a goal template
type GoalTemplatePatternNewProps struct {
	APIKey         string `json:"apiKey"`
	GoalTemplateID int64  `json:"goalTemplateId"`
	Pattern        string `json:"pattern"`
	Active         bool   `json:"active"`
}

// NamedEntityNewProps creates a named entity together with its first revision
type NamedEntityNewProps struct {
	APIKey string          `json:"apiKey"`
	Name   string          `json:"name"`
	Kind   NamedEntityKind `json:"kind"`
}

// NamedEntityDataNewProps creates a new revision of a named entity
type NamedEntityDataNewProps struct {
	APIKey        string          `json:"apiKey"`
	NamedEntityID int64           `json:"namedEntityId"`
	Name          string          `json:"name"`
	Kind          NamedEntityKind `json:"kind"`
	Active        bool            `json:"active"`
}

// NamedEntityPatternNewProps attaches a pattern to a named entity
type NamedEntityPatternNewProps struct {
	APIKey        string `json:"apiKey"`
	NamedEntityID int64  `json:"namedEntityId"`
	Pattern       string `json:"pattern"`
	Active        bool   `json:"active"`
}

// TimeUtilityFunctionNewProps creates a step function mapping time to utility.
// StartTimes and Utils must have the same length.
type TimeUtilityFunctionNewProps struct {
	APIKey     string  `json:"apiKey"`
	StartTimes []int64 `json:"startTimes"`
	Utils      []int64 `json:"utils"`
}

// UserGeneratedCodeNewProps uploads user code and its compiled artifact.
// WasmCache travels base64 encoded.
type UserGeneratedCodeNewProps struct {
	APIKey     string `json:"apiKey"`
	SourceCode string `json:"sourceCode"`
	SourceLang string `json:"sourceLang"`
	WasmCache  []byte `json:"wasmCache"`
}

// ExternalEventNewProps creates an external event together with its first revision
type ExternalEventNewProps struct {
	APIKey    string `json:"apiKey"`
	Name      string `json:"name"`
	StartTime int64  `json:"startTime"`
	EndTime   int64  `json:"endTime"`
}

// ExternalEventDataNewProps creates a new revision of an external event
type ExternalEventDataNewProps struct {
	APIKey          string `json:"apiKey"`
	ExternalEventID int64  `json:"externalEventId"`
	Name            string `json:"name"`
	StartTime       int64  `json:"startTime"`
	EndTime         int64  `json:"endTime"`
	Active          bool   `json:"active"`
}

// Page holds the filters shared by all view requests
type Page struct {
	MinCreationTime *int64  `json:"minCreationTime,omitempty"`
	MaxCreationTime *int64  `json:"maxCreationTime,omitempty"`
	CreatorUserID   []int64 `json:"creatorUserId,omitempty"`
	Count           *int64  `json:"count,omitempty"`
	Offset          *int64  `json:"offset,omitempty"`
}

// GoalFilter selects goals
type GoalFilter struct {
	GoalID []int64 `json:"goalId,omitempty"`
	Page
}

// GoalDataFilter selects goal revisions
type GoalDataFilter struct {
	GoalDataID            []int64          `json:"goalDataId,omitempty"`
	GoalID                []int64          `json:"goalId,omitempty"`
	Name                  []string         `json:"name,omitempty"`
	MinDurationEstimate   *int64           `json:"minDurationEstimate,omitempty"`
	MaxDurationEstimate   *int64           `json:"maxDurationEstimate,omitempty"`
	Concrete              *bool            `json:"concrete,omitempty"`
	TimeUtilityFunctionID []int64          `json:"timeUtilityFunctionId,omitempty"`
	Status                []GoalDataStatus `json:"status,omitempty"`
	Scheduled             *bool            `json:"scheduled,omitempty"`
	OnlyRecent            bool             `json:"onlyRecent"`
	Page
}

// GoalEventFilter selects goal events
type GoalEventFilter struct {
	GoalEventID  []int64 `json:"goalEventId,omitempty"`
	GoalID       []int64 `json:"goalId,omitempty"`
	MinStartTime *int64  `json:"minStartTime,omitempty"`
	MaxStartTime *int64  `json:"maxStartTime,omitempty"`
	MinEndTime   *int64  `json:"minEndTime,omitempty"`
	MaxEndTime   *int64  `json:"maxEndTime,omitempty"`
	Active       *bool   `json:"active,omitempty"`
	OnlyRecent   bool    `json:"onlyRecent"`
	Page
}

// GoalDependencyFilter selects goal dependencies
type GoalDependencyFilter struct {
	GoalDependencyID []int64 `json:"goalDependencyId,omitempty"`
	GoalID           []int64 `json:"goalId,omitempty"`
	DependentGoalID  []int64 `json:"dependentGoalId,omitempty"`
	Active           *bool   `json:"active,omitempty"`
	OnlyRecent       bool    `json:"onlyRecent"`
	Page
}

// GoalEntityTagFilter selects goal entity tags
type GoalEntityTagFilter struct {
	GoalEntityTagID []int64 `json:"goalEntityTagId,omitempty"`
	NamedEntityID   []int64 `json:"namedEntityId,omitempty"`
	GoalID          []int64 `json:"goalId,omitempty"`
	Active          *bool   `json:"active,omitempty"`
	OnlyRecent      bool    `json:"onlyRecent"`
	Page
}

// GoalTemplateFilter selects goal templates
type GoalTemplateFilter struct {
	GoalTemplateID []int64 `json:"goalTemplateId,omitempty"`
	Page
}

// GoalTemplateDataFilter selects goal template revisions
type GoalTemplateDataFilter struct {
	GoalTemplateDataID  []int64  `json:"goalTemplateDataId,omitempty"`
	GoalTemplateID      []int64  `json:"goalTemplateId,omitempty"`
	Name                []string `json:"name,omitempty"`
	UserGeneratedCodeID []int64  `json:"userGeneratedCodeId,omitempty"`
	Active              *bool    `json:"active,omitempty"`
	OnlyRecent          bool     `json:"onlyRecent"`
	Page
}

// GoalTemplatePatternFilter selects goal template patterns
type GoalTemplatePatternFilter struct {
	GoalTemplatePatternID []int64  `json:"goalTemplatePatternId,omitempty"`
	GoalTemplateID        []int64  `json:"goalTemplateId,omitempty"`
	Pattern               []string `json:"pattern,omitempty"`
	Active                *bool    `json:"active,omitempty"`
	OnlyRecent            bool     `json:"onlyRecent"`
	Page
}

// NamedEntityFilter selects named entities
type NamedEntityFilter struct {
	NamedEntityID []int64 `json:"namedEntityId,omitempty"`
	Page
}

// NamedEntityDataFilter selects named entity revisions
type NamedEntityDataFilter struct {
	NamedEntityDataID []int64           `json:"namedEntityDataId,omitempty"`
	NamedEntityID     []int64           `json:"namedEntityId,omitempty"`
	Name              []string          `json:"name,omitempty"`
	Kind              []NamedEntityKind `json:"kind,omitempty"`
	Active            *bool             `json:"active,omitempty"`
	OnlyRecent        bool              `json:"onlyRecent"`
	Page
}

// NamedEntityPatternFilter selects named entity patterns
type NamedEntityPatternFilter struct {
	NamedEntityPatternID []int64  `json:"namedEntityPatternId,omitempty"`
	NamedEntityID        []int64  `json:"namedEntityId,omitempty"`
	Pattern              []string `json:"pattern,omitempty"`
	Active               *bool    `json:"active,omitempty"`
	OnlyRecent           bool     `json:"onlyRecent"`
	Page
}

// TimeUtilityFunctionFilter selects time utility functions
type TimeUtilityFunctionFilter struct {
	TimeUtilityFunctionID []int64 `json:"timeUtilityFunctionId,omitempty"`
	Page
}

// UserGeneratedCodeFilter selects user generated code
type UserGeneratedCodeFilter struct {
	UserGeneratedCodeID []int64  `json:"userGeneratedCodeId,omitempty"`
	SourceLang          []string `json:"sourceLang,omitempty"`
	Page
}

// ExternalEventFilter selects external events
type ExternalEventFilter struct {
	ExternalEventID []int64 `json:"externalEventId,omitempty"`
	Page
}

// ExternalEventDataFilter selects external event revisions
type ExternalEventDataFilter struct {
	ExternalEventDataID []int64  `json:"externalEventDataId,omitempty"`
	ExternalEventID     []int64  `json:"externalEventId,omitempty"`
	Name                []string `json:"name,omitempty"`
	MinStartTime        *int64   `json:"minStartTime,omitempty"`
	MaxStartTime        *int64   `json:"maxStartTime,omitempty"`
	MinEndTime          *int64   `json:"minEndTime,omitempty"`
	MaxEndTime          *int64   `json:"maxEndTime,omitempty"`
	Active              *bool    `json:"active,omitempty"`
	OnlyRecent          bool     `json:"onlyRecent"`
	Page
}

// The view props carry the api key next to the filter. Filter fields are
// inlined into the request body.
type (
	// GoalViewProps queries goals
	GoalViewProps struct {
		APIKey string `json:"apiKey"`
		GoalFilter
	}
	// GoalDataViewProps queries goal revisions
	GoalDataViewProps struct {
		APIKey string `json:"apiKey"`
		GoalDataFilter
	}
	// GoalEventViewProps queries goal events
	GoalEventViewProps struct {
		APIKey string `json:"apiKey"`
		GoalEventFilter
	}
	// GoalDependencyViewProps queries goal dependencies
	GoalDependencyViewProps struct {
		APIKey string `json:"apiKey"`
		GoalDependencyFilter
	}
	// GoalEntityTagViewProps queries goal entity tags
	GoalEntityTagViewProps struct {
		APIKey string `json:"apiKey"`
		GoalEntityTagFilter
	}
	// GoalTemplateViewProps queries goal templates
	GoalTemplateViewProps struct {
		APIKey string `json:"apiKey"`
		GoalTemplateFilter
	}
	// GoalTemplateDataViewProps queries goal template revisions
	GoalTemplateDataViewProps struct {
		APIKey string `json:"apiKey"`
		GoalTemplateDataFilter
	}
	// GoalTemplatePatternViewProps queries goal template patterns
	GoalTemplatePatternViewProps struct {
		APIKey string `json:"apiKey"`
		GoalTemplatePatternFilter
	}
	// NamedEntityViewProps queries named entities
	NamedEntityViewProps struct {
		APIKey string `json:"apiKey"`
		NamedEntityFilter
	}
	// NamedEntityDataViewProps queries named entity revisions
	NamedEntityDataViewProps struct {
		APIKey string `json:"apiKey"`
		NamedEntityDataFilter
	}
	// NamedEntityPatternViewProps queries named entity patterns
	NamedEntityPatternViewProps struct {
		APIKey string `json:"apiKey"`
		NamedEntityPatternFilter
	}
	// TimeUtilityFunctionViewProps queries time utility functions
	TimeUtilityFunctionViewProps struct {
		APIKey string `json:"apiKey"`
		TimeUtilityFunctionFilter
	}
	// UserGeneratedCodeViewProps queries user generated code
	UserGeneratedCodeViewProps struct {
		APIKey string `json:"apiKey"`
		UserGeneratedCodeFilter
	}
	// ExternalEventViewProps queries external events
	ExternalEventViewProps struct {
		APIKey string `json:"apiKey"`
		ExternalEventFilter
	}
	// ExternalEventDataViewProps queries external event revisions
	ExternalEventDataViewProps struct {
		APIKey string `json:"apiKey"`
		ExternalEventDataFilter
	}
)
