package mcp

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AllowedPathsEnv lists extra readable directories, comma-separated
const AllowedPathsEnv = "GRIDQ_ALLOWED_PATHS"

// AllowedBasePaths contains directories from which files can be read.
// If empty, defaults to current working directory.
var AllowedBasePaths []string

// InitAllowedPaths sets the readable directories, keeping the working
// directory allowed. Every path must exist.
func InitAllowedPaths(paths []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("cannot determine working directory: %w", err)
	}

	allowed := []string{cwd}
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("invalid allowed path %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("allowed path %s: %w", p, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("allowed path %s is not a directory", p)
		}
		allowed = append(allowed, abs)
	}

	AllowedBasePaths = allowed
	return nil
}

// LoadAllowedPathsFromEnv initializes the allowed paths from GRIDQ_ALLOWED_PATHS.
// An unset variable leaves the working-directory default in place.
func LoadAllowedPathsFromEnv() error {
	value := os.Getenv(AllowedPathsEnv)
	if value == "" {
		return nil
	}
	return InitAllowedPaths(strings.Split(value, ","))
}

// ValidateFilePath ensures the path is safe to access.
func ValidateFilePath(requestedPath string) (string, error) {
	if requestedPath == "" {
		return "", fmt.Errorf("file path cannot be empty")
	}

	absPath, err := filepath.Abs(requestedPath)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	// Resolve symlinks to prevent bypass
	realPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", requestedPath)
		}
		return "", fmt.Errorf("cannot resolve path: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("cannot determine working directory: %w", err)
	}

	basePaths := AllowedBasePaths
	if len(basePaths) == 0 {
		basePaths = []string{cwd}
	}

	for _, base := range basePaths {
		absBase, err := filepath.Abs(base)
		if err != nil {
			continue
		}
		realBase, err := filepath.EvalSymlinks(absBase)
		if err != nil {
			continue
		}
		if strings.HasPrefix(realPath, realBase+string(os.PathSeparator)) || realPath == realBase {
			return realPath, nil
		}
	}

	return "", fmt.Errorf("access denied: path outside allowed directories")
}
