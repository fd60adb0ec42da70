package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// ServerHeader identifies the HTTP surface in responses.
var ServerHeader = "Astro-Calculator/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName     = "Astro Calculator"
	AppID       = "com.github.rabank.astro-calculator"
	CommandName = "vedichart"
	LogFileName = "app.log"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagDebug       = "debug"
	FlagConfig      = "config"
	FlagSnapshot    = "snapshot"
	FlagAyanamsha   = "ayanamsha"
	FlagNode        = "node"
	FlagOffset      = "ayanamsha-offset"
	FlagHorizon     = "horizon"
	FlagPort        = "port"
	FlagName        = "name"
	FlagCombo       = "combo"
	FlagICS         = "ics"
	FlagDescDebug   = "Enable debug logging"
	FlagDescConfig  = "Config file (default ./vedichart.yaml)"
	FlagDescSnap    = "Ephemeris snapshot file (YAML or JSON)"
	FlagDescAyan    = "Ayanamsha variant (LAHIRI, RAMAN, KRISHNAMURTI, KP, FAGAN_BRADLEY, DELUCE, DJWHAL_KHUL, ALDEBARAN_15TAU)"
	FlagDescNode    = "Lunar node model (MEAN or TRUE)"
	FlagDescOffset  = "Ayanamsha calibration offset in degrees"
	FlagDescHorizon = "Vimshottari horizon in years"
	FlagDescPort    = "HTTP listen port"
	FlagDescName    = "Label for the chart's calendar feed"
	FlagDescCombo   = "Variant to evaluate as AYANAMSHA:NODE (repeatable)"
	FlagDescICS     = "Write the Vimshottari timeline as iCalendar to this file"

	MsgVersionOutput = "%s version %s (commit %s, built %s, %s/%s)\n"
	ConfigFileName   = "vedichart"
	ConfigFileType   = "yaml"
	ComboSeparator   = ":"
)

// -----------------------------------------------------------------------------
// Environment & Settings Keys
// -----------------------------------------------------------------------------

const (
	// Viper keys. Each is bound to the environment variable of the same name
	// in upper case, matching the variables read by the original service.
	KeyAyanamsha = "ayanamsha"
	KeyNodeType  = "node_type"
	KeyOffset    = "ayanamsha_offset"
	KeyHorizon   = "dasha_horizon_years"
	KeyPort      = "port"
	KeyDebug     = "debug"

	EnvAyanamsha = "AYANAMSHA"
	EnvNodeType  = "NODE_TYPE"
	EnvOffset    = "AYANAMSHA_OFFSET"
	EnvHorizon   = "DASHA_HORIZON_YEARS"
	EnvPort      = "PORT"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultAyanamsha    = "LAHIRI"
	DefaultNodeModel    = "MEAN"
	DefaultOffset       = 0.0
	DefaultHorizonYears = 120.0
	DefaultPort         = "10000"
	BindAddr            = "0.0.0.0"

	// MaxCalibrationOffset bounds the ayanamsha calibration offset; the offset is
	// meant for small corrections, not for selecting another variant.
	MaxCalibrationOffset = 5.0

	// MaxHorizonYears bounds a Vimshottari request to two full cycles, which keeps
	// every period end representable as a time.Duration from birth.
	MaxHorizonYears = 240.0

	// DaysPerYear is the year length used to turn Dasha years into timestamps.
	DaysPerYear = 365.25

	// RoundingPlaces is the precision of degrees and percentages in responses.
	RoundingPlaces = 2

	// NodeModelTrue selects the true (osculating) lunar node.
	NodeModelTrue = "TRUE"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar
// -----------------------------------------------------------------------------

const (
	ICalVersion   = "2.0"
	ICalProdid    = "-//Astro Calculator//Vimshottari//EN"
	ICalCalName   = "Vimshottari Dasha"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalDomain    = "astro-calculator"
	ICalCalNameOf = "Vimshottari Dasha: %s"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDescription = "DESCRIPTION"
	PropCategories  = "CATEGORIES"
	PropDTStart     = "DTSTART"
	PropDTEnd       = "DTEND"
	PropDTStamp     = "DTSTAMP"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	CategoryMahadasha  = "MAHADASHA"
	CategoryAntardasha = "ANTARDASHA"

	FormatMahaSummary  = "%s Mahadasha"
	FormatAntarSummary = "%s / %s Antardasha"
	FormatPeriodDesc   = "Age %.2f to %.2f years"
	FormatHashInput    = "%s|%s|%s|%s"
	FormatUID          = "%s@%s"
	UIDHashLength      = 16
	UIDSalt            = "vimshottari-v1-"
)

// -----------------------------------------------------------------------------
// Data Formats
// -----------------------------------------------------------------------------

const (
	TimestampFormat = time.RFC3339
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	ShutdownTimeout    = 5 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 30 * time.Second
	ServerIdleTimeout  = 60 * time.Second
	RetryAfterSeconds  = "10"
	AllowedMethodsGet  = "GET, HEAD"
	AllowedMethodsPost = "POST, OPTIONS"
	CORSMethods        = "GET,POST,OPTIONS"
	CORSHeaders        = "Content-Type"
	CORSOrigin         = "*"
	MaxRequestBodySize = 1 << 20 // 1MB
	AddrSeparator      = ":"

	RouteRoot      = "/"
	RouteChart     = "/chart"
	RouteDashaICS  = "/dasha.ics"
	RouteCalculate = "/calculate"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderServer          = "Server"
	HeaderRequestID       = "X-Request-ID"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"
	HeaderAllowOrigin     = "Access-Control-Allow-Origin"
	HeaderAllowHeaders    = "Access-Control-Allow-Headers"
	HeaderAllowMethods    = "Access-Control-Allow-Methods"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeText            = "text/plain; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrInvalidInput    = "invalid chart input"
	ErrNonFinite       = "value is not a finite number"
	ErrMissingBody     = "required body is missing"
	ErrDuplicateBody   = "body supplied more than once"
	ErrMissingBirth    = "birth timestamp is missing"
	ErrHorizon         = "dasha horizon must be a positive number of years"
	ErrHorizonTooLarge = "dasha horizon exceeds the supported maximum"
	ErrHorizonInvalid  = "invalid dasha horizon"
	ErrUnknownBody     = "unknown ephemeris body"
	ErrUnknownVariant  = "ayanamsha variant not available"
	ErrSnapshot        = "invalid ephemeris snapshot"
	ErrSnapshotRead    = "failed to read ephemeris snapshot"
	ErrSnapshotMoment  = "snapshot does not cover the requested moment"
	ErrEphemeris       = "ephemeris lookup failed"
	ErrOffsetRange     = "ayanamsha calibration offset out of range"
	ErrPortRequired    = "server port is required"
	ErrPortNumber      = "server port must be a number"
	ErrPortRange       = "server port must be between 1 and 65535"
	ErrCombo           = "variant must be written as AYANAMSHA:NODE"
	ErrConfigLoad      = "failed to load configuration"
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrJSONEncode      = "failed to encode chart"
	ErrRequestDecode   = "failed to decode request body"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrCreateDir       = "could not create app cache dir"
	ErrAppFailed       = "application failed unexpectedly"
	ErrWriteResp       = "failed to write response body"
	ErrVariantFailed   = "variant evaluation failed"
	ErrTimestampFormat = "timestamp must be RFC 3339"
	ErrEmptyTimeline   = "dasha timeline is empty"
	ErrConfigReload    = "failed to apply changed configuration"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgRunning      = "Astro Calculator API is running"
	HTTPMsgInitializing = "Chart initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgInternalErr  = "Internal Server Error"
	HTTPMsgNotFound     = "Not Found"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting    = "Starting application"
	MsgAppStop        = "Application stopped gracefully"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgCacheUpdated   = "Chart cache updated"
	MsgChartComputed  = "Chart computed"
	MsgDashaGenerated = "Vimshottari timeline generated"
	MsgVariantsDone   = "Variants evaluated"
	MsgSnapshotLoaded = "Ephemeris snapshot loaded"
	MsgUnknownVariant = "Unknown ayanamsha variant, falling back to default"
	MsgRequestFailed  = "Request rejected"
	MsgRequestServed  = "Request served"
	MsgCurrentDasha   = "Current period"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgCalendarBuilt  = "Dasha calendar encoded"
	MsgConfigReloaded = "Configuration changed, chart republished"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyPort      = "port"
	LogKeyFile      = "file"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyValue     = "value"
	LogKeyCount     = "count"
	LogKeyDuration  = "duration_ms"
	LogKeyAyanamsha = "ayanamsha"
	LogKeyNode      = "node"
	LogKeyOffset    = "offset"
	LogKeyJulianDay = "julian_day"
	LogKeyHorizon   = "horizon_years"
	LogKeyPeriods   = "periods"
	LogKeyLord      = "lord"
	LogKeySubLord   = "sub_lord"
	LogKeyAsc       = "ascendant"
	LogKeyMethod    = "method"
	LogKeyPath      = "path"
	LogKeyStatus    = "status_code"
	LogKeyRequestID = "request_id"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain      = "main"
	CompCLI       = "cli"
	CompEngine    = "engine"
	CompDasha     = "dasha"
	CompEphemeris = "ephemeris"
	CompCalendar  = "calendar"
	CompServer    = "server"
)
