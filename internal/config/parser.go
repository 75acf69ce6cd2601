/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/hyperledger/fabric-blockcipher/common/flogging"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

var logger = flogging.MustGetLogger("aesutil.config")

// ConfigPaths returns the paths from environment and
// defaults which are CWD and /etc/hyperledger/blockcipher.
func ConfigPaths() []string {
	var paths []string
	if p := os.Getenv("AESUTIL_CFG_PATH"); p != "" {
		paths = append(paths, p)
	}
	return append(paths, ".", "/etc/hyperledger/blockcipher")
}

// Parser holds the configuration file locations and the parsed YAML tree.
// Values in the tree can be overridden by environment variables named after
// the upper cased config name and the dotted key path, for example
// AESUTIL_CIPHER_MODE.
type Parser struct {
	configPaths []string
	configName  string
	configFile  string

	config map[string]interface{}
}

// NewParser creates a Parser for <name>.yaml with env prefix NAME_.
func NewParser(name string) *Parser {
	return &Parser{
		configName: name,
		config:     map[string]interface{}{},
	}
}

// AddConfigPaths keeps a list of paths to search for the config file.
func (c *Parser) AddConfigPaths(cfgPaths ...string) {
	c.configPaths = append(c.configPaths, cfgPaths...)
}

// SetConfigFile bypasses the search and uses the given file.
func (c *Parser) SetConfigFile(file string) {
	c.configFile = file
}

// ConfigFileUsed returns the file that was read, or an empty string.
func (c *Parser) ConfigFileUsed() string {
	return c.configFile
}

func (c *Parser) searchInPath(in string) string {
	for _, ext := range []string{"yaml", "yml"} {
		fullPath := filepath.Join(in, c.configName+"."+ext)
		if _, err := os.Stat(fullPath); err == nil {
			return fullPath
		}
	}
	return ""
}

func (c *Parser) findConfigFile() string {
	paths := c.configPaths
	if len(paths) == 0 {
		paths = ConfigPaths()
	}
	for _, cp := range paths {
		if file := c.searchInPath(cp); file != "" {
			return file
		}
	}
	return ""
}

// ReadInConfig reads the explicit config file, or the first one found on the
// search path. It is not an error for no file to be found when none was set
// explicitly; the parser then relies on environment overrides alone.
func (c *Parser) ReadInConfig() error {
	if c.configFile == "" {
		c.configFile = c.findConfigFile()
		if c.configFile == "" {
			logger.Debugf("No %s.yaml found, using defaults and environment", c.configName)
			return nil
		}
	}

	logger.Debugf("Attempting to open the config file: %s", c.configFile)
	file, err := os.Open(c.configFile)
	if err != nil {
		return errors.Wrapf(err, "opening config file %s", c.configFile)
	}
	defer file.Close()

	return c.ReadConfig(file)
}

// ReadConfig parses YAML from in.
func (c *Parser) ReadConfig(in io.Reader) error {
	err := yaml.NewDecoder(in).Decode(c.config)
	if err == io.EOF {
		return nil
	}
	return errors.Wrap(err, "parsing YAML")
}

func (c *Parser) getFromEnv(key string) string {
	envKey := key
	if c.configName != "" {
		envKey = c.configName + "_" + envKey
	}
	envKey = strings.ToUpper(envKey)
	envKey = strings.ReplaceAll(envKey, ".", "_")
	return os.Getenv(envKey)
}

type envGetter func(key string) string

// getKeysRecursively walks the YAML tree alongside the target struct type,
// applying environment overrides to leaves. Struct fields that are missing
// from the YAML are still visited so that they can be set from the
// environment.
func getKeysRecursively(base string, getenv envGetter, nodeKeys map[string]interface{}, oType reflect.Type) map[string]interface{} {
	subTypes := map[string]reflect.Type{}

	if oType != nil && oType.Kind() == reflect.Struct {
	outer:
		for i := 0; i < oType.NumField(); i++ {
			fieldName := oType.Field(i).Name
			fieldType := oType.Field(i).Type

			for key := range nodeKeys {
				if strings.EqualFold(fieldName, key) {
					subTypes[key] = fieldType
					continue outer
				}
			}

			subTypes[fieldName] = fieldType
			nodeKeys[fieldName] = nil
		}
	}

	result := make(map[string]interface{})
	for key, val := range nodeKeys {
		fqKey := base + key

		if override := getenv(fqKey); override != "" {
			val = override
		}

		switch val := val.(type) {
		case map[string]interface{}:
			result[key] = getKeysRecursively(fqKey+".", getenv, val, subTypes[key])

		case map[interface{}]interface{}:
			m, err := toMapStringInterface(val)
			if err != nil {
				logger.Warnf("Ignoring %s: %s", fqKey, err)
				continue
			}
			result[key] = getKeysRecursively(fqKey+".", getenv, m, subTypes[key])

		case nil:
			if override := getenv(fqKey + ".File"); override != "" {
				result[key] = map[string]interface{}{"File": override}
				continue
			}
			if t := subTypes[key]; t != nil && t.Kind() == reflect.Struct {
				result[key] = getKeysRecursively(fqKey+".", getenv, map[string]interface{}{}, t)
				continue
			}
			result[key] = nil

		default:
			result[key] = val
		}
	}
	return result
}

func toMapStringInterface(m map[interface{}]interface{}) (map[string]interface{}, error) {
	result := map[string]interface{}{}
	for k, v := range m {
		ks, ok := k.(string)
		if !ok {
			return nil, fmt.Errorf("non string key %v", k)
		}
		result[ks] = v
	}
	return result, nil
}

// stringFromFileDecodeHook lets a string setting be given as {File: path},
// in which case the file contents are used.
func stringFromFileDecodeHook(f reflect.Kind, t reflect.Kind, data interface{}) (interface{}, error) {
	if t != reflect.String || f != reflect.Map {
		return data, nil
	}

	d, ok := data.(map[string]interface{})
	if !ok {
		return data, nil
	}
	fileName, ok := d["File"]
	if !ok {
		fileName, ok = d["file"]
	}
	switch {
	case ok && fileName != nil:
		name, isString := fileName.(string)
		if !isString {
			return nil, errors.Errorf("value of File: must be a string, got %T", fileName)
		}
		contents, err := os.ReadFile(name)
		if err != nil {
			return data, err
		}
		return strings.TrimSpace(string(contents)), nil
	case ok:
		return nil, errors.New("value of File: was nil")
	}
	return data, nil
}

// EnhancedExactUnmarshal decodes the parsed configuration into output,
// which must be a pointer to a struct. Keys that do not correspond to a
// struct field are an error.
func (c *Parser) EnhancedExactUnmarshal(output interface{}) error {
	oType := reflect.TypeOf(output)
	if oType == nil || oType.Kind() != reflect.Ptr {
		return errors.Errorf("supplied output argument must be a pointer to a struct but is not pointer")
	}
	eType := oType.Elem()
	if eType.Kind() != reflect.Struct {
		return errors.Errorf("supplied output argument must be a pointer to a struct, but it is pointer to something else")
	}

	leafKeys := getKeysRecursively("", c.getFromEnv, c.config, eType)

	logger.Debugf("%+v", leafKeys)
	config := &mapstructure.DecoderConfig{
		ErrorUnused:      true,
		Metadata:         nil,
		Result:           output,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			stringFromFileDecodeHook,
		),
	}

	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return err
	}
	return decoder.Decode(leafKeys)
}
