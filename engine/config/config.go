package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type ApplicationConfig struct {
	// The application name used in windowing.
	Name string `toml:"name"`
	// Window starting position x axis.
	StartPosX uint32 `toml:"start_pos_x"`
	// Window starting position y axis.
	StartPosY uint32 `toml:"start_pos_y"`
	// Window starting width.
	StartWidth uint32 `toml:"start_width"`
	// Window starting height.
	StartHeight uint32 `toml:"start_height"`
	// One of debug, info, warn, error, fatal.
	LogLevel string `toml:"log_level"`
	VSync    bool   `toml:"vsync"`
}

type PipelineConfig struct {
	Scale           float32   `toml:"scale"`
	Colour          []float32 `toml:"colour"`
	UseMeshColours  bool      `toml:"use_mesh_colours"`
	DefaultNormal   []float32 `toml:"default_normal"`
	DefaultTexCoord []float32 `toml:"default_texcoord"`

	PositionAttribute string `toml:"position_attribute"`
	NormalAttribute   string `toml:"normal_attribute"`
	ColourAttribute   string `toml:"colour_attribute"`
	TexCoordAttribute string `toml:"texcoord_attribute"`

	ProjectionUniform string `toml:"projection_uniform"`
	ViewUniform       string `toml:"view_uniform"`
	TimeUniform       string `toml:"time_uniform"`
	TintUniform       string `toml:"tint_uniform"`
}

type AssetsConfig struct {
	// Directory the model and shader paths are relative to. Watched for changes.
	Dir string `toml:"dir"`
	// The OBJ file to show.
	Model string `toml:"model"`
	// The shader name; <name>.vert and <name>.frag are loaded.
	Shader string `toml:"shader"`
	// Reload the shader when its files change on disk.
	HotReload bool `toml:"hot_reload"`
}

type Config struct {
	Application ApplicationConfig `toml:"application"`
	Pipeline    PipelineConfig    `toml:"pipeline"`
	Assets      AssetsConfig      `toml:"assets"`
}

// Default returns a configuration that runs without a file.
func Default() *Config {
	p := metadata.DefaultPipelineConfig()
	colour := p.Colour.Elements()
	return &Config{
		Application: ApplicationConfig{
			Name:        "meshview",
			StartPosX:   100,
			StartPosY:   100,
			StartWidth:  1280,
			StartHeight: 720,
			LogLevel:    "info",
			VSync:       true,
		},
		Pipeline: PipelineConfig{
			Scale:             p.Scale,
			Colour:            colour[:],
			UseMeshColours:    p.UseMeshColours,
			DefaultNormal:     []float32{p.DefaultNormal.X, p.DefaultNormal.Y, p.DefaultNormal.Z},
			DefaultTexCoord:   []float32{p.DefaultTexCoord.X, p.DefaultTexCoord.Y},
			PositionAttribute: p.AttributeNames[metadata.AttributePosition],
			NormalAttribute:   p.AttributeNames[metadata.AttributeNormal],
			ColourAttribute:   p.AttributeNames[metadata.AttributeColour],
			TexCoordAttribute: p.AttributeNames[metadata.AttributeTexCoord],
			ProjectionUniform: p.UniformNames[metadata.UniformProjection],
			ViewUniform:       p.UniformNames[metadata.UniformView],
			TimeUniform:       p.UniformNames[metadata.UniformTime],
			TintUniform:       p.UniformNames[metadata.UniformTint],
		},
		Assets: AssetsConfig{
			Dir:       "assets",
			Model:     "models/cube.obj",
			Shader:    "shaders/basic",
			HotReload: true,
		},
	}
}

/**
 * @brief Reads a TOML file over the defaults and validates the result.
 * Keys missing from the file keep their default value; unknown keys are an error.
 */
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	core.LogDebug("Loaded configuration from %s.", path)
	return cfg, nil
}

// Parse decodes TOML data over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, strict.String())
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting the engine cannot run with.
func (c *Config) Validate() error {
	if c.Application.StartWidth == 0 || c.Application.StartHeight == 0 {
		return fmt.Errorf("%w: window size must be > 0, got %dx%d", ErrInvalidConfig, c.Application.StartWidth, c.Application.StartHeight)
	}
	if _, err := core.ParseLogLevel(c.Application.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	p := c.Pipeline
	if p.Scale <= 0 {
		return fmt.Errorf("%w: pipeline.scale must be > 0, got %f", ErrInvalidConfig, p.Scale)
	}
	if len(p.Colour) != 4 {
		return fmt.Errorf("%w: pipeline.colour needs 4 components, got %d", ErrInvalidConfig, len(p.Colour))
	}
	for i, v := range p.Colour {
		if !math.InRange(v, 0, 1) {
			return fmt.Errorf("%w: pipeline.colour[%d] = %f is outside 0..1", ErrInvalidConfig, i, v)
		}
	}
	if len(p.DefaultNormal) != 3 {
		return fmt.Errorf("%w: pipeline.default_normal needs 3 components, got %d", ErrInvalidConfig, len(p.DefaultNormal))
	}
	if len(p.DefaultTexCoord) != 2 {
		return fmt.Errorf("%w: pipeline.default_texcoord needs 2 components, got %d", ErrInvalidConfig, len(p.DefaultTexCoord))
	}
	if p.PositionAttribute == "" {
		return fmt.Errorf("%w: pipeline.position_attribute must not be empty", ErrInvalidConfig)
	}
	return nil
}

// LogLevel returns the parsed log level. Validate guarantees it parses.
func (c *Config) LogLevel() core.LogLevel {
	level, err := core.ParseLogLevel(c.Application.LogLevel)
	if err != nil {
		return core.InfoLevel
	}
	return level
}

// PipelineConfig converts the [pipeline] section for the render systems.
func (c *Config) PipelineConfig() *metadata.PipelineConfig {
	p := c.Pipeline
	out := metadata.DefaultPipelineConfig()
	out.Scale = p.Scale
	out.UseMeshColours = p.UseMeshColours
	if len(p.Colour) == 4 {
		out.Colour = math.NewVec4(p.Colour[0], p.Colour[1], p.Colour[2], p.Colour[3])
	}
	if len(p.DefaultNormal) == 3 {
		out.DefaultNormal = math.NewVec3(p.DefaultNormal[0], p.DefaultNormal[1], p.DefaultNormal[2])
	}
	if len(p.DefaultTexCoord) == 2 {
		out.DefaultTexCoord = math.NewVec2(p.DefaultTexCoord[0], p.DefaultTexCoord[1])
	}
	out.AttributeNames = [metadata.AttributeCount]string{
		metadata.AttributePosition: p.PositionAttribute,
		metadata.AttributeNormal:   p.NormalAttribute,
		metadata.AttributeColour:   p.ColourAttribute,
		metadata.AttributeTexCoord: p.TexCoordAttribute,
	}
	out.UniformNames = [metadata.UniformCount]string{
		metadata.UniformProjection: p.ProjectionUniform,
		metadata.UniformView:       p.ViewUniform,
		metadata.UniformTime:       p.TimeUniform,
		metadata.UniformTint:       p.TintUniform,
	}
	return &out
}

// Marshal renders the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
