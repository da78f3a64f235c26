package logger

import (
	"net/url"
	"regexp"
	"strings"
)

// DefaultMaskValue replaces sensitive values.
const DefaultMaskValue = "***"

// FilterConfig lists the field name fragments whose values are masked.
type FilterConfig struct {
	SensitiveFields []string
	MaskValue       string
}

// DefaultFilterConfig masks credentials and connection strings.
func DefaultFilterConfig() *FilterConfig {
	return &FilterConfig{
		SensitiveFields: []string{
			"password", "passwd", "pwd",
			"secret", "token", "api_key", "apikey",
			"auth", "credential",
			"dsn", "connectionstring", "connection_string", "database_url",
		},
		MaskValue: DefaultMaskValue,
	}
}

// mysqlDSNPassword matches the password of a go-sql-driver DSN, user:pass@tcp(host)/db.
var mysqlDSNPassword = regexp.MustCompile(`^([^:@/]*):([^@]*)@`)

// SensitiveDataFilter masks values of sensitive fields before they reach the log.
type SensitiveDataFilter struct {
	config *FilterConfig
}

// NewSensitiveDataFilter creates a filter; a nil config uses DefaultFilterConfig.
func NewSensitiveDataFilter(config *FilterConfig) *SensitiveDataFilter {
	if config == nil {
		config = DefaultFilterConfig()
	}
	if config.MaskValue == "" {
		config.MaskValue = DefaultMaskValue
	}
	return &SensitiveDataFilter{config: config}
}

// FilterString masks value when key is sensitive. Connection strings keep their
// structure with only the password replaced.
func (f *SensitiveDataFilter) FilterString(key, value string) string {
	if !f.isSensitiveField(key) || value == "" {
		return value
	}
	if masked, ok := f.maskDSN(value); ok {
		return masked
	}
	return f.config.MaskValue
}

// FilterValue masks value when key is sensitive and recurses into maps and slices.
func (f *SensitiveDataFilter) FilterValue(key string, value any) any {
	if f.isSensitiveField(key) {
		if s, ok := value.(string); ok {
			return f.FilterString(key, s)
		}
		return f.config.MaskValue
	}
	switch v := value.(type) {
	case map[string]any:
		return f.FilterFields(v)
	case []map[string]any:
		out := make([]any, len(v))
		for i, m := range v {
			out[i] = f.FilterFields(m)
		}
		return out
	default:
		return value
	}
}

// FilterFields returns a filtered copy of fields.
func (f *SensitiveDataFilter) FilterFields(fields map[string]any) map[string]any {
	filtered := make(map[string]any, len(fields))
	for key, value := range fields {
		filtered[key] = f.FilterValue(key, value)
	}
	return filtered
}

func (f *SensitiveDataFilter) isSensitiveField(fieldName string) bool {
	lower := strings.ToLower(fieldName)
	for _, s := range f.config.SensitiveFields {
		if strings.Contains(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

func (f *SensitiveDataFilter) maskDSN(value string) (string, bool) {
	if strings.Contains(value, "://") {
		parsed, err := url.Parse(value)
		if err != nil {
			return "", false
		}
		if parsed.User == nil {
			return value, true
		}
		if _, has := parsed.User.Password(); !has {
			return value, true
		}
		parsed.User = url.UserPassword(parsed.User.Username(), f.config.MaskValue)
		return strings.Replace(parsed.String(), url.QueryEscape(f.config.MaskValue), f.config.MaskValue, 1), true
	}
	if mysqlDSNPassword.MatchString(value) {
		return mysqlDSNPassword.ReplaceAllString(value, "${1}:"+f.config.MaskValue+"@"), true
	}
	return "", false
}
