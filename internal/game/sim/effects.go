package sim

import "github.com/Faultbox/woodland/internal/config"

// Effect selects a screen-space post effect.
type Effect uint8

// Post effects understood by the renderer.
const (
	EffectNone Effect = iota
	EffectNightVision
	EffectWavering
	EffectPixelated
	EffectDrunk
	EffectBlur
	EffectBloody
)

var effectNames = [...]string{"none", "night-vision", "wavering", "pixelated", "drunk", "blur", "bloody"}

// String returns the effect name.
func (e Effect) String() string {
	if int(e) < len(effectNames) {
		return effectNames[e]
	}
	return "unknown"
}

// RenderEffects is the post-effect state handed to the renderer each frame.
type RenderEffects struct {
	Enabled      bool
	Effect       Effect
	BlurSamples  int
	BloodFactor  float32
	PixelSpacing float32
}

func newEffects(cfg config.EffectsConfig) RenderEffects {
	return RenderEffects{
		Effect:       EffectNone,
		BlurSamples:  cfg.BlurSamples,
		PixelSpacing: cfg.PixelSpacing,
	}
}

// escalate turns on the blood overlay, stronger for each lost health point.
// A depleted agent gets no effects.
func (r *RenderEffects) escalate(health, maxHealth int, step float32) {
	if health <= 0 {
		r.Enabled = false
		r.Effect = EffectNone
		r.BloodFactor = 0
		return
	}
	lost := maxHealth - health
	if lost <= 0 {
		return
	}
	r.Enabled = true
	r.Effect = EffectBloody
	r.BloodFactor = step * float32(lost)
}
