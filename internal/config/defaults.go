package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Store.Root == "" {
		cfg.Store.Root = "/data"
	}
	if cfg.Store.URLPrefix == "" {
		cfg.Store.URLPrefix = "/files"
	}
	if cfg.Oracle.BaseURL == "" {
		cfg.Oracle.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Oracle.ChatModel == "" {
		cfg.Oracle.ChatModel = "gpt-4o-mini"
	}
	if cfg.Oracle.VisionModel == "" {
		cfg.Oracle.VisionModel = cfg.Oracle.ChatModel
	}
	if cfg.Oracle.TranscribeModel == "" {
		cfg.Oracle.TranscribeModel = "gpt-4o-mini-transcribe"
	}
	if cfg.Oracle.SpeechModel == "" {
		cfg.Oracle.SpeechModel = "gpt-4o-mini-tts"
	}
	if cfg.Oracle.SpeechVoice == "" {
		cfg.Oracle.SpeechVoice = "alloy"
	}
	if cfg.Oracle.EmbedModel == "" {
		cfg.Oracle.EmbedModel = "text-embedding-3-small"
	}
	if cfg.Oracle.TimeoutSeconds == 0 {
		cfg.Oracle.TimeoutSeconds = 90
	}
	if cfg.Agents.WorksheetURL == "" {
		cfg.Agents.WorksheetURL = "http://localhost:8081"
	}
	if cfg.Agents.StudyPlanURL == "" {
		cfg.Agents.StudyPlanURL = "http://localhost:8082"
	}
	if cfg.Agents.VoiceURL == "" {
		cfg.Agents.VoiceURL = "http://localhost:8083"
	}
	if cfg.Agents.ForwardTimeoutSeconds == 0 {
		cfg.Agents.ForwardTimeoutSeconds = 120
	}
	if cfg.Limits.WorksheetContextChars == 0 {
		cfg.Limits.WorksheetContextChars = 15000
	}
	if cfg.Limits.SyllabusContextChars == 0 {
		cfg.Limits.SyllabusContextChars = 120000
	}
	if cfg.Metrics.LogPath == "" {
		cfg.Metrics.LogPath = "/data/kyoshi_metrics.jsonl"
	}
}
