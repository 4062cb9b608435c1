package constants

import "github.com/fuabioo/gridq/internal/env"

// Fixed grid tunables
const (
	// VersionNumber is the grid component release these values belong to
	VersionNumber = "4.3.3"

	// MaxRowCount limits the total number of records handled by the grid
	MaxRowCount = 2000

	// RoundWidth rounds column widths in config mode to the nearest multiple
	RoundWidth = 5

	// WizardRowCount is the number of records shown in the column wizard
	WizardRowCount = 6

	CheckboxTrue         = "CB_TRUE"
	CheckboxFalse        = "CB_FALSE"
	CheckboxAttribPrefix = "cb_"

	// MinSearchTermSize is the minimum number of characters that starts a search
	MinSearchTermSize = 1

	// SearchWaitTime is the typing delay before searching, in milliseconds
	SearchWaitTime = 300

	// RecordsPerPage is the default pagination size
	RecordsPerPage = 10

	RemoveRowLabel = "Remove Row"
	RemoveRowIcon  = "utility:close"
	RemoveRowColor = "remove-icon"
	RemoveRowSide  = "Right"

	DebugInfoPrefix = "DATATABLE: "

	// ShowDebugInfo enables sensitive debug output
	ShowDebugInfo = false

	// DefaultColumnWidth is applied when flex sizing is turned off
	DefaultColumnWidth = 200
)

// Constants is the configuration record consumed by the grid.
// Link fields come from the resolved host environment.
type Constants struct {
	VersionNumber        string `json:"VERSION_NUMBER" yaml:"VERSION_NUMBER"`
	MaxRowCount          int    `json:"MAXROWCOUNT" yaml:"MAXROWCOUNT"`
	RoundWidth           int    `json:"ROUNDWIDTH" yaml:"ROUNDWIDTH"`
	WizardRowCount       int    `json:"WIZROWCOUNT" yaml:"WIZROWCOUNT"`
	MyDomain             string `json:"MYDOMAIN" yaml:"MYDOMAIN"`
	IsCommunity          bool   `json:"ISCOMMUNITY" yaml:"ISCOMMUNITY"`
	IsFlowBuilder        bool   `json:"ISFLOWBUILDER" yaml:"ISFLOWBUILDER"`
	CheckboxTrue         string `json:"CB_TRUE" yaml:"CB_TRUE"`
	CheckboxFalse        string `json:"CB_FALSE" yaml:"CB_FALSE"`
	CheckboxAttribPrefix string `json:"CB_ATTRIB_PREFIX" yaml:"CB_ATTRIB_PREFIX"`
	MinSearchTermSize    int    `json:"MIN_SEARCH_TERM_SIZE" yaml:"MIN_SEARCH_TERM_SIZE"`
	SearchWaitTime       int    `json:"SEARCH_WAIT_TIME" yaml:"SEARCH_WAIT_TIME"`
	RecordsPerPage       int    `json:"RECORDS_PER_PAGE" yaml:"RECORDS_PER_PAGE"`
	RemoveRowLabel       string `json:"REMOVE_ROW_LABEL" yaml:"REMOVE_ROW_LABEL"`
	RemoveRowIcon        string `json:"REMOVE_ROW_ICON" yaml:"REMOVE_ROW_ICON"`
	RemoveRowColor       string `json:"REMOVE_ROW_COLOR" yaml:"REMOVE_ROW_COLOR"`
	RemoveRowSide        string `json:"REMOVE_ROW_SIDE" yaml:"REMOVE_ROW_SIDE"`
	DebugInfoPrefix      string `json:"DEBUG_INFO_PREFIX" yaml:"DEBUG_INFO_PREFIX"`
	ShowDebugInfo        bool   `json:"SHOW_DEBUG_INFO" yaml:"SHOW_DEBUG_INFO"`
	DefaultColumnWidth   int    `json:"DEFAULT_COL_WIDTH" yaml:"DEFAULT_COL_WIDTH"`
}

// New returns the constants record for the given host environment.
// It has no side effects; equal environments give equal records.
func New(host env.HostEnvironment) Constants {
	return Constants{
		VersionNumber:        VersionNumber,
		MaxRowCount:          MaxRowCount,
		RoundWidth:           RoundWidth,
		WizardRowCount:       WizardRowCount,
		MyDomain:             host.DomainURL,
		IsCommunity:          host.IsCommunitySite,
		IsFlowBuilder:        host.IsBuilderContext,
		CheckboxTrue:         CheckboxTrue,
		CheckboxFalse:        CheckboxFalse,
		CheckboxAttribPrefix: CheckboxAttribPrefix,
		MinSearchTermSize:    MinSearchTermSize,
		SearchWaitTime:       SearchWaitTime,
		RecordsPerPage:       RecordsPerPage,
		RemoveRowLabel:       RemoveRowLabel,
		RemoveRowIcon:        RemoveRowIcon,
		RemoveRowColor:       RemoveRowColor,
		RemoveRowSide:        RemoveRowSide,
		DebugInfoPrefix:      DebugInfoPrefix,
		ShowDebugInfo:        ShowDebugInfo,
		DefaultColumnWidth:   DefaultColumnWidth,
	}
}

// Map returns the record as a flat key/value mapping using the grid's keys
func (c Constants) Map() map[string]any {
	return map[string]any{
		"VERSION_NUMBER":       c.VersionNumber,
		"MAXROWCOUNT":          c.MaxRowCount,
		"ROUNDWIDTH":           c.RoundWidth,
		"WIZROWCOUNT":          c.WizardRowCount,
		"MYDOMAIN":             c.MyDomain,
		"ISCOMMUNITY":          c.IsCommunity,
		"ISFLOWBUILDER":        c.IsFlowBuilder,
		"CB_TRUE":              c.CheckboxTrue,
		"CB_FALSE":             c.CheckboxFalse,
		"CB_ATTRIB_PREFIX":     c.CheckboxAttribPrefix,
		"MIN_SEARCH_TERM_SIZE": c.MinSearchTermSize,
		"SEARCH_WAIT_TIME":     c.SearchWaitTime,
		"RECORDS_PER_PAGE":     c.RecordsPerPage,
		"REMOVE_ROW_LABEL":     c.RemoveRowLabel,
		"REMOVE_ROW_ICON":      c.RemoveRowIcon,
		"REMOVE_ROW_COLOR":     c.RemoveRowColor,
		"REMOVE_ROW_SIDE":      c.RemoveRowSide,
		"DEBUG_INFO_PREFIX":    c.DebugInfoPrefix,
		"SHOW_DEBUG_INFO":      c.ShowDebugInfo,
		"DEFAULT_COL_WIDTH":    c.DefaultColumnWidth,
	}
}
