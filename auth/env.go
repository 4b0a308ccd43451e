package auth

import (
	"context"
	"os"

	"github.com/codeGROOVE-dev/socialmap/profile"
)

// platformEnvVars maps platforms to their environment variable configurations.
// Each entry maps env var name to cookie name.
var platformEnvVars = map[profile.Platform]map[string]string{
	profile.LinkedIn: {
		"LINKEDIN_LI_AT":      "li_at",
		"LINKEDIN_JSESSIONID": "JSESSIONID",
		"LINKEDIN_LIDC":       "lidc",
		"LINKEDIN_BCOOKIE":    "bcookie",
	},
	profile.Twitter: {
		"TWITTER_AUTH_TOKEN": "auth_token",
		"TWITTER_CT0":        "ct0",
		"TWITTER_TWID":       "twid",
		"TWITTER_KDT":        "kdt",
	},
}

// EnvSource reads cookies from environment variables.
type EnvSource struct{}

// Cookies returns cookies for the given platform from environment variables.
func (EnvSource) Cookies(_ context.Context, platform profile.Platform) (map[string]string, error) {
	envMap, ok := platformEnvVars[platform]
	if !ok {
		return nil, nil //nolint:nilnil // no cookies for unknown platform is not an error
	}

	cookies := make(map[string]string)
	for envVar, cookieName := range envMap {
		if value := os.Getenv(envVar); value != "" {
			cookies[cookieName] = value
		}
	}

	if len(cookies) == 0 {
		return nil, nil //nolint:nilnil // no env vars set is not an error
	}
	return cookies, nil
}

// EnvVarsForPlatform returns the environment variable names for a platform.
// This is useful for generating help messages.
func EnvVarsForPlatform(platform profile.Platform) []string {
	envMap, ok := platformEnvVars[platform]
	if !ok {
		return nil
	}

	vars := make([]string, 0, len(envMap))
	for envVar := range envMap {
		vars = append(vars, envVar)
	}
	return vars
}
