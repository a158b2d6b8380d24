package config

// Config is the root configuration structure for sentry-mattermost.
// Serialised to ~/.sentry-mattermost/config.json.
type Config struct {
	Mattermost MattermostConfig `mapstructure:"mattermost" json:"mattermost"`
	Gateway    GatewayConfig    `mapstructure:"gateway"    json:"gateway"`
}

// MattermostConfig is the notification surface: where messages go and how
// they are rendered.
type MattermostConfig struct {
	// Webhook is the Mattermost incoming webhook URL. Required; nothing is
	// sent while it is empty.
	Webhook string `mapstructure:"webhook" json:"webhook"`
	// Username is the bot name shown in the channel.
	Username string `mapstructure:"username" json:"username"`
	// Channel overrides the webhook's default channel when set.
	Channel string `mapstructure:"channel" json:"channel"`
	// CustomFormat replaces the default message template when set. Uses
	// {field} placeholders over the recognized event fields.
	CustomFormat string `mapstructure:"custom_format" json:"custom_format"`
	// LogoMatchLevel picks the bot avatar according to the event level.
	LogoMatchLevel bool `mapstructure:"logo_match_level" json:"logo_match_level"`
	// IncludeKeysWithTags renders tags as `key: value` instead of `value`.
	IncludeKeysWithTags bool `mapstructure:"include_keys_with_tags" json:"include_keys_with_tags"`
	// IncludedTagKeys, when non-empty, limits rendered tags to these keys
	// (comma separated list).
	IncludedTagKeys string `mapstructure:"included_tag_keys" json:"included_tag_keys"`
	// ExcludedTagKeys removes these keys from rendered tags (comma separated
	// list).
	ExcludedTagKeys string `mapstructure:"excluded_tag_keys" json:"excluded_tag_keys"`
}

// GatewayConfig controls the webhook ingress server.
type GatewayConfig struct {
	// Port is the localhost HTTP port the ingress listens on (default: 6190).
	Port int `mapstructure:"port" json:"port"`
}
