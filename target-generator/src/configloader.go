package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"csb/synthetic-targets/targets"
)

/**
* LoadTargetConfig reads a target configuration in the following format:
* variant = MixMultiNormal1
* components = 3
* dimensions = 4
* seed = 0
* candidateVariant = MixNormal2
* candidateSeed = 1
* samples = 5000
* k = 5
* rotate = true
* plotSamples = 2000
* M = 16
* efConstruction = 200
*
* variant, components, dimensions, candidateVariant and samples are required.
* The candidate shares the target's components and dimensions.
 */
func LoadTargetConfig(filename string, config *Config) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open config file %s: %w", filename, err)
	}
	defer file.Close()

	seen := make(map[string]bool)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// skip blank lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format on line: %s", line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		seen[key] = true

		switch key {
		case "variant":
			config.target.variant, err = targets.ParseVariant(value)
		case "candidateVariant":
			config.candidate.variant, err = targets.ParseVariant(value)
		case "components":
			config.target.components, err = parsePositive(value)
		case "dimensions":
			config.target.dimensions, err = parsePositive(value)
		case "seed":
			config.target.seed, err = strconv.ParseInt(value, 10, 64)
		case "candidateSeed":
			config.candidate.seed, err = strconv.ParseInt(value, 10, 64)
		case "samples":
			config.samples, err = parsePositive(value)
		case "k":
			config.k, err = parsePositive(value)
		case "rotate":
			config.rotate, err = strconv.ParseBool(value)
		case "plotSamples":
			config.plotSamples, err = parsePositive(value)
		case "M":
			config.indexParameters.M, err = parsePositive(value)
		case "efConstruction":
			config.indexParameters.efConstruction, err = parsePositive(value)
		default:
			return fmt.Errorf("unknown parameter in line: %s", line)
		}
		if err != nil {
			return fmt.Errorf("invalid %s value in line: %s: %w", key, line, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	// Verify that all required fields are set
	for _, key := range []string{"variant", "components", "dimensions", "candidateVariant", "samples"} {
		if !seen[key] {
			return fmt.Errorf("missing required parameter: %s", key)
		}
	}
	if config.k >= config.samples {
		return fmt.Errorf("k (%d) must be smaller than samples (%d)", config.k, config.samples)
	}

	config.candidate.components = config.target.components
	config.candidate.dimensions = config.target.dimensions
	return nil
}

func parsePositive(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}
