package config

// Storage backend selectors.
const (
	StorageBackendSupabase = "supabase"
	StorageBackendLocal    = "local"
)

const (
	defaultDataDir   = "~/.local/share/papercast"
	defaultOutputDir = "~/.local/share/papercast/output"
	defaultLogDir    = "~/.local/share/papercast/logs"

	defaultArxivQuery          = "cat:cs.AI"
	defaultArxivMaxResults     = 5
	defaultArxivBaseURL        = "http://export.arxiv.org/api/query"
	defaultArxivTimeoutSeconds = 30

	defaultGeminiBaseURL        = "https://generativelanguage.googleapis.com/v1beta"
	defaultExtractionModel      = "gemini-2.5-pro"
	defaultScriptModel          = "gemini-2.5-pro"
	defaultTTSModel             = "gemini-2.5-pro-preview-tts"
	defaultGeminiTimeoutSeconds = 300

	defaultHostName        = "Alex"
	defaultGuestName       = "Jamie"
	defaultHostVoice       = "Charon"
	defaultGuestVoice      = "Zephyr"
	defaultPodcastLanguage = "en"

	defaultStorageBackend = StorageBackendLocal
	defaultBucket         = "audios"
	defaultLocalStoreDir  = "~/.local/share/papercast/bucket"

	defaultMaxPapersPerRun       = 1
	defaultUploadBatchSize       = 10
	defaultAcquireTimeoutSeconds = 60
	defaultMaxPDFBytes           = 100 * 1024 * 1024

	defaultLogFormat = "auto"
	defaultLogLevel  = "info"

	defaultNotifyRequestTimeout = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Arxiv: Arxiv{
			Query:          defaultArxivQuery,
			MaxResults:     defaultArxivMaxResults,
			BaseURL:        defaultArxivBaseURL,
			TimeoutSeconds: defaultArxivTimeoutSeconds,
		},
		Gemini: Gemini{
			BaseURL:         defaultGeminiBaseURL,
			ExtractionModel: defaultExtractionModel,
			ScriptModel:     defaultScriptModel,
			TTSModel:        defaultTTSModel,
			TimeoutSeconds:  defaultGeminiTimeoutSeconds,
		},
		Podcast: Podcast{
			HostName:   defaultHostName,
			GuestName:  defaultGuestName,
			HostVoice:  defaultHostVoice,
			GuestVoice: defaultGuestVoice,
			Language:   defaultPodcastLanguage,
		},
		Storage: Storage{
			Backend:  defaultStorageBackend,
			Bucket:   defaultBucket,
			LocalDir: defaultLocalStoreDir,
		},
		Workflow: Workflow{
			MaxPapersPerRun:       defaultMaxPapersPerRun,
			UploadBatchSize:       defaultUploadBatchSize,
			AcquireTimeoutSeconds: defaultAcquireTimeoutSeconds,
			MaxPDFBytes:           defaultMaxPDFBytes,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
	}
}
