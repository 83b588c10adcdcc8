package config

// Config is the top-level session configuration
type Config struct {
	LogLevel   string           `yaml:"log_level"`
	Render     RenderConfig     `yaml:"render"`
	Controller ControllerConfig `yaml:"controller"`
	Torus      TorusConfig      `yaml:"torus"`
	Camera     CameraConfig     `yaml:"camera"`
	Score      ScoreConfig      `yaml:"score"`
}

// RenderConfig holds the tunable render parameters and the fixed base geometry
type RenderConfig struct {
	BaseWidth       int     `yaml:"base_width"`
	BaseHeight      int     `yaml:"base_height"`
	ResolutionScale float64 `yaml:"resolution_scale"`
	SamplesPerPixel int     `yaml:"samples_per_pixel"`
	Gamma           float64 `yaml:"gamma"`
	NormalSmooth    float64 `yaml:"normal_smooth"`
	RampSize        int     `yaml:"ramp_size"`
	TargetFPS       int     `yaml:"target_fps"`
}

// ControllerConfig selects the auto-tuning mode and cadence
type ControllerConfig struct {
	// Mode is one of "off", "K", or "KH"
	Mode string `yaml:"mode"`
	// IntervalFrames is how often the controller is consulted, in frames
	IntervalFrames int `yaml:"interval_frames"`
}

// TorusConfig holds the torus geometry (major radius R, minor radius r)
type TorusConfig struct {
	MajorRadius float64 `yaml:"major_radius"`
	MinorRadius float64 `yaml:"minor_radius"`
}

// CameraConfig holds the camera placement
type CameraConfig struct {
	Distance float64 `yaml:"distance"`
}

// ScoreConfig holds the objective weighting between frame rate and quality
type ScoreConfig struct {
	WeightFPS     float64 `yaml:"weight_fps"`
	WeightQuality float64 `yaml:"weight_quality"`
}

// Controller modes
const (
	ControllerOff = "off"
	ControllerK   = "K"
	ControllerKH  = "KH"
)

// Default returns a configuration with the standard session defaults
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Render: RenderConfig{
			BaseWidth:       80,
			BaseHeight:      24,
			ResolutionScale: 1.0,
			SamplesPerPixel: 1,
			Gamma:           1.0,
			NormalSmooth:    0.0,
			RampSize:        12,
			TargetFPS:       30,
		},
		Controller: ControllerConfig{
			Mode:           ControllerOff,
			IntervalFrames: 10,
		},
		Torus: TorusConfig{
			MajorRadius: 2.5,
			MinorRadius: 0.30,
		},
		Camera: CameraConfig{
			Distance: 10.0,
		},
		Score: ScoreConfig{
			WeightFPS:     0.5,
			WeightQuality: 0.5,
		},
	}
}
