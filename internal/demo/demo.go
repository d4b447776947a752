// Package demo moves one model group to preset poses on the number keys.
package demo

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/phongview/internal/config"
	"github.com/Faultbox/phongview/internal/engine/input"
	"github.com/Faultbox/phongview/internal/engine/scene"
	"github.com/Faultbox/phongview/internal/logger"
	"github.com/Faultbox/phongview/pkg/matutils"
)

// Pose is a translation applied after a rotation about Y.
type Pose struct {
	Translation mgl32.Vec3
	RotationY   float32
}

// Matrix returns Translation * RotationY.
func (p Pose) Matrix() mgl32.Mat4 {
	return matutils.Translation(p.Translation).Mul4(matutils.RotationY(p.RotationY))
}

// Keys maps digits to poses of the models named Target.
type Keys struct {
	Target string
	Poses  map[int]Pose
	log    *zap.Logger
}

// New creates a key mapping for target.
func New(target string, poses map[int]Pose) *Keys {
	return &Keys{
		Target: target,
		Poses:  poses,
		log:    logger.Named("demo"),
	}
}

// FromConfig builds the key mapping from the demo config section.
func FromConfig(cfg config.DemoConfig) *Keys {
	poses := make(map[int]Pose, len(cfg.Poses))
	for key, p := range cfg.Poses {
		poses[key] = Pose{Translation: mgl32.Vec3(p.Translation), RotationY: p.RotationY}
	}
	return New(cfg.Target, poses)
}

// Digits returns the mapped digits in ascending order.
func (k *Keys) Digits() []int {
	digits := make([]int, 0, len(k.Poses))
	for d := range k.Poses {
		digits = append(digits, d)
	}
	sort.Ints(digits)
	return digits
}

// HandleEvent replaces the model matrix of every target model when a mapped
// number key is pressed. It reports whether a pose was applied.
func (k *Keys) HandleEvent(s *scene.Scene, e input.Event) bool {
	if e.Type != input.EventKeyDown {
		return false
	}
	digit, ok := e.Key.Digit()
	if !ok {
		return false
	}
	pose, ok := k.Poses[digit]
	if !ok {
		return false
	}

	models := s.Group(k.Target)
	m := pose.Matrix()
	for _, model := range models {
		model.M = m
	}
	k.log.Info("applying pose",
		zap.Int("key", digit),
		zap.String("target", k.Target),
		zap.Int("models", len(models)),
		zap.Float32s("translation", pose.Translation[:]),
		zap.Float32("rotation_y", pose.RotationY),
	)
	return true
}
