package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"

	"github.com/adhocore/jsonc"
	"github.com/goccy/go-yaml"
	"github.com/roemer/relwatch/pkg/common"
	"github.com/roemer/relwatch/pkg/presets"
)

// The name of the local config that is searched when no config is given.
const DefaultLocalConfig = "relwatch"

// Loads the given configuration. Without a path, a local "relwatch" config is used
// if one exists, otherwise the embedded default preset.
func Load(ctx context.Context, configPath string, httpUtil *common.HttpUtil) (*RelwatchConfig, error) {
	if configPath == "" {
		if foundPath, err := SearchConfigFileFromPath(DefaultLocalConfig); err == nil && foundPath != "" {
			configPath = fmt.Sprintf("local:%s", foundPath)
		} else {
			configPath = fmt.Sprintf("preset:%s", presets.DefaultPreset)
		}
	}
	if !strings.Contains(configPath, ":") {
		configPath = fmt.Sprintf("local:%s", configPath)
	}
	configInfo, err := newConfigInfo(configPath)
	if err != nil {
		return nil, err
	}
	if httpUtil == nil {
		httpUtil = common.NewHttpUtil(common.DefaultRequestTimeout, common.DefaultRetries)
	}
	loader := &configLoader{ctx: ctx, http: httpUtil}
	return loader.loadConfig(nil, configInfo)
}

// Searches a config file for the given path without extension by probing the valid extensions.
// Returns an empty string if nothing was found.
func SearchConfigFileFromPath(basePath string) (string, error) {
	for _, ext := range presets.ConfigExtensions {
		candidate := basePath + ext
		if exists, err := common.FileExists(candidate); err != nil {
			return "", err
		} else if exists {
			return candidate, nil
		}
	}
	return "", nil
}

////////////////////////////////////////////////////////////
// Internal
////////////////////////////////////////////////////////////

const (
	infoTypePreset string = "preset"
	infoTypeLocal  string = "local"
	infoTypeWeb    string = "web"
)

var httpSchemeRegex = regexp.MustCompile(`^https?://.+`)

// Holds information about the type and location of a config
type configInfo struct {
	Type     string
	Location string
}

func (ci *configInfo) String() string {
	return fmt.Sprintf("%s:%s", ci.Type, ci.Location)
}

func newConfigInfo(info string) (*configInfo, error) {
	if info == "" {
		return nil, fmt.Errorf("empty config info")
	}

	var configType, configLoc string

	if httpSchemeRegex.MatchString(info) {
		// The info is an url, so use web
		configType = infoTypeWeb
		configLoc = info
	} else {
		parts := strings.SplitN(info, ":", 2)
		if len(parts) == 1 {
			configType = infoTypePreset
			configLoc = parts[0]
		} else {
			configType = parts[0]
			configLoc = parts[1]
		}
	}
	// Create the info object
	return &configInfo{
		Type:     configType,
		Location: configLoc,
	}, nil
}

type configLoader struct {
	ctx  context.Context
	http *common.HttpUtil
	// The configs that are currently being loaded, used to detect cycles.
	stack []string
}

func (l *configLoader) loadConfig(parentInfo, newInfo *configInfo) (*RelwatchConfig, error) {
	var newConfig *RelwatchConfig
	var err error
	// Try load the config according to the type
	switch newInfo.Type {
	case infoTypePreset:
		newConfig, err = loadConfigFromEmbeddedFile(newInfo.Location)
	case infoTypeLocal:
		var resolvedPath string
		newConfig, resolvedPath, err = loadConfigFromFile(parentInfo, newInfo)
		if err == nil {
			// Continue with the resolved path so relative extends are searched next to it
			newInfo = &configInfo{Type: infoTypeLocal, Location: resolvedPath}
		}
	case infoTypeWeb:
		newConfig, err = l.loadConfigFromWeb(newInfo.Location)
	default:
		return nil, fmt.Errorf("unknown config type '%s'", newInfo.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("failed reading config '%s': %w", newInfo, err)
	}

	if slices.Contains(l.stack, newInfo.String()) {
		return nil, fmt.Errorf("config '%s' extends itself", newInfo)
	}
	l.stack = append(l.stack, newInfo.String())
	defer func() { l.stack = l.stack[:len(l.stack)-1] }()

	// PreProcess the config
	if err := newConfig.PostLoadProcess(); err != nil {
		return nil, fmt.Errorf("failed processing config '%s': %w", newInfo, err)
	}

	// Create a new object for the merged config with the presets
	mergedConfig := &RelwatchConfig{}
	// Process the "Extends" presets first
	for _, presetLookupInfo := range newConfig.Extends {
		presetInfo, err := newConfigInfo(presetLookupInfo)
		if err != nil {
			return nil, err
		}
		// Read the extended preset
		extendsConfig, err := l.loadConfig(newInfo, presetInfo)
		if err != nil {
			return nil, err
		}
		// Merge the extended preset into the merged config
		mergedConfig.MergeWith(extendsConfig)
	}
	// Merge the original config into the merged config
	mergedConfig.MergeWith(newConfig)

	// Return the merged config
	return mergedConfig, nil
}

func loadConfigFromFile(parentInfo, newInfo *configInfo) (*RelwatchConfig, string, error) {
	// Build a list of paths that should be searched
	searchPaths := []string{}
	if filepath.IsAbs(newInfo.Location) {
		// For an absolute path, only use the absolute path
		searchPaths = append(searchPaths, newInfo.Location)
	} else {
		// Current folder
		searchPaths = append(searchPaths, newInfo.Location)

		// Folder of the parent config
		if parentInfo != nil && parentInfo.Type == infoTypeLocal && parentInfo.Location != "" {
			tempSearchPath := filepath.Clean(filepath.Join(filepath.Dir(parentInfo.Location), newInfo.Location))
			searchPaths = append(searchPaths, tempSearchPath)
		}

		// Current executable directory
		if executablePath, err := os.Executable(); err == nil {
			tempSearchPath := filepath.Clean(filepath.Join(filepath.Dir(executablePath), newInfo.Location))
			searchPaths = append(searchPaths, tempSearchPath)
		}

		// Based on the current file that is executed (probably with "go run" only)
		if _, filename, _, ok := runtime.Caller(0); ok {
			rootPath := filepath.Dir(filepath.Dir(filepath.Dir(filename)))
			tempSearchPath := filepath.Clean(filepath.Join(rootPath, newInfo.Location))
			searchPaths = append(searchPaths, tempSearchPath)
		}
	}

	// Search thru the defined search paths
	hasExt := filepath.Ext(newInfo.Location) != ""
	finalValidConfigPath := ""
	for _, searchPath := range searchPaths {
		if hasExt {
			// We have an extension, directly search in the given path
			if exists, err := common.FileExists(searchPath); err != nil {
				return nil, "", err
			} else if exists {
				finalValidConfigPath = searchPath
				break
			}
		} else {
			// No extension, probe with the valid extensions
			if foundPath, err := SearchConfigFileFromPath(searchPath); err != nil {
				return nil, "", err
			} else if foundPath != "" {
				finalValidConfigPath = foundPath
				break
			}
		}
	}

	// Nothing found at all
	if finalValidConfigPath == "" {
		return nil, "", fmt.Errorf("file not found for '%s'", newInfo.Location)
	}
	if absPath, err := filepath.Abs(finalValidConfigPath); err == nil {
		finalValidConfigPath = absPath
	}

	content, err := os.ReadFile(finalValidConfigPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed opening file '%s': %w", finalValidConfigPath, err)
	}
	config, err := decodeConfig(content, filepath.Ext(finalValidConfigPath))
	if err != nil {
		return nil, "", fmt.Errorf("failed parsing file '%s': %w", finalValidConfigPath, err)
	}
	return config, finalValidConfigPath, nil
}

func loadConfigFromEmbeddedFile(presetName string) (*RelwatchConfig, error) {
	content, presetPath, err := presets.ReadPreset(presetName)
	if err != nil {
		return nil, err
	}
	config, err := decodeConfig(content, path.Ext(presetPath))
	if err != nil {
		return nil, fmt.Errorf("failed parsing embedded file '%s': %w", presetPath, err)
	}
	return config, nil
}

func (l *configLoader) loadConfigFromWeb(urlString string) (*RelwatchConfig, error) {
	// Check if the url is valid
	parsedUrl, err := url.Parse(urlString)
	if err != nil {
		return nil, err
	}

	// Download it
	content, err := l.http.DownloadToMemory(l.ctx, urlString, common.WithAccept(common.ContentTypeYAML, common.ContentTypeJSON))
	if err != nil {
		return nil, fmt.Errorf("failed downloading config from '%s': %w", urlString, err)
	}

	// Unmarshal it
	config, err := decodeConfig(content, path.Ext(parsedUrl.Path))
	if err != nil {
		return nil, fmt.Errorf("failed parsing config from '%s': %w", urlString, err)
	}
	return config, nil
}

// Decodes a config. JSON may contain comments.
func decodeConfig(content []byte, ext string) (*RelwatchConfig, error) {
	config := &RelwatchConfig{}
	if strings.EqualFold(ext, ".json") {
		strippedJson := jsonc.New().StripS(string(content))
		if err := json.Unmarshal([]byte(strippedJson), config); err != nil {
			return nil, err
		}
		return config, nil
	}
	if err := yaml.Unmarshal(content, config); err != nil {
		return nil, err
	}
	return config, nil
}
