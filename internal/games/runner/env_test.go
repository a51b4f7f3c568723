package runner

import (
	"errors"
	"testing"

	"github.com/vovakirdan/arcade-gym/internal/config"
	"github.com/vovakirdan/arcade-gym/internal/core"
	"github.com/vovakirdan/arcade-gym/internal/registry"
)

func newTestEnv(t *testing.T) *Env {
	t.Helper()
	return New(config.DefaultRunnerConfig(), 42)
}

func (e *Env) placeObstacle(x float64, c Class) {
	e.obstacle = Obstacle{X: x, Y: e.spawner.heightFor(c), Class: c}
}

func TestFloorClamp(t *testing.T) {
	e := newTestEnv(t)
	floorTop := e.cfg.World.FloorY - e.cfg.Player.Height

	for i := 0; i < 10; i++ {
		res, err := e.Step(core.ActionNone)
		if err != nil {
			t.Fatal(err)
		}
		if e.playerY != floorTop || e.playerVel != 0 {
			t.Fatalf("tick %d: y=%v vel=%v, expected to stay on the floor", i, e.playerY, e.playerVel)
		}
		if res.Observation[0] != 0 {
			t.Fatalf("tick %d: elevation = %v, expected 0", i, res.Observation[0])
		}
	}
}

func TestJumpOnlyFromFloor(t *testing.T) {
	e := newTestEnv(t)

	res, _ := e.Step(core.ActionJump)
	if res.Observation[0] <= 0 {
		t.Fatalf("elevation after jump = %v, expected > 0", res.Observation[0])
	}
	vel := e.playerVel

	// A second jump in mid-air does not reset the velocity.
	e.Step(core.ActionJump)
	if e.playerVel != vel+e.cfg.Physics.Gravity {
		t.Errorf("mid-air jump changed velocity to %v", e.playerVel)
	}
}

func TestCollision(t *testing.T) {
	e := newTestEnv(t)
	e.placeObstacle(e.cfg.Player.X+e.cfg.Player.Width+e.cfg.Obstacle.Speed-1, ClassGround)

	res, err := e.Step(core.ActionNone)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Done || res.Reward != -1 || res.Reason != core.ReasonCollision {
		t.Errorf("result = %+v, expected collision with reward -1", res)
	}

	// A finished episode stays finished.
	res, _ = e.Step(core.ActionJump)
	if !res.Done || res.Reward != 0 {
		t.Errorf("step after game over = %+v", res)
	}
}

func TestStandingIntoAirObstacleCollides(t *testing.T) {
	e := newTestEnv(t)
	e.placeObstacle(e.cfg.Player.X+10, ClassAir)

	res, _ := e.Step(core.ActionNone)
	if !res.Done || res.Reason != core.ReasonCollision {
		t.Errorf("result = %+v, expected a collision with the raised obstacle", res)
	}
}

func TestDodgeRewardsAndRespawns(t *testing.T) {
	e := newTestEnv(t)
	e.placeObstacle(40, ClassAir)

	res, _ := e.Step(core.ActionNone)
	if res.Done || res.Reward != 1 {
		t.Fatalf("result = %+v, expected a dodge with reward 1", res)
	}
	if e.Dodges() != 1 || res.Score != 1 {
		t.Errorf("dodges = %d, score = %d, expected 1", e.Dodges(), res.Score)
	}
	if e.Obstacle().X != e.cfg.World.Width {
		t.Errorf("obstacle x = %v, expected respawn at %v", e.Obstacle().X, e.cfg.World.Width)
	}
}

func TestDuckUnderAirObstacle(t *testing.T) {
	e := newTestEnv(t)
	e.placeObstacle(e.cfg.World.Width, ClassAir)

	for i := 0; i < 200; i++ {
		res, _ := e.Step(core.ActionDuck)
		if res.Done {
			t.Fatalf("tick %d: ducking player collided: %+v", i, res)
		}
		if res.Reward == 1 {
			return
		}
	}
	t.Fatal("obstacle never passed the ducking player")
}

func TestJumpOverGroundObstacle(t *testing.T) {
	// Some jump distance must clear a ground obstacle.
	for trigger := 0.0; trigger <= 400; trigger += 5 {
		e := newTestEnv(t)
		e.placeObstacle(e.cfg.World.Width, ClassGround)
		obs := e.observe()

		for i := 0; i < 200; i++ {
			a := core.ActionNone
			if obs[1] <= trigger {
				a = core.ActionJump
			}
			res, _ := e.Step(a)
			obs = res.Observation
			if res.Reward == 1 {
				return
			}
			if res.Done {
				break
			}
		}
	}
	t.Fatal("no jump timing cleared the ground obstacle")
}

func TestScoreEveryTwoFrames(t *testing.T) {
	e := newTestEnv(t)
	for i := 0; i < 5; i++ {
		e.Step(core.ActionNone)
	}
	if e.Score() != 2 {
		t.Errorf("Score() = %d after 5 frames, expected 2", e.Score())
	}
}

func TestStepCap(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	cfg.World.MaxSteps = 5
	e := New(cfg, 1)

	for i := 0; i < 4; i++ {
		if res, _ := e.Step(core.ActionNone); res.Done {
			t.Fatalf("episode ended early at step %d", i)
		}
	}
	res, _ := e.Step(core.ActionNone)
	if !res.Done || res.Reason != core.ReasonStepCap || res.Reward != 0 {
		t.Errorf("result = %+v, expected step cap", res)
	}
}

func TestInvalidAction(t *testing.T) {
	e := newTestEnv(t)
	before := e.observe()

	_, err := e.Step(core.ActionPushLeft)
	if !errors.Is(err, core.ErrInvalidAction) {
		t.Fatalf("error = %v, expected ErrInvalidAction", err)
	}
	after := e.observe()
	for i := range before {
		if before[i] != after[i] {
			t.Fatal("invalid action should not change state")
		}
	}
}

func TestSameSeedSameObstacles(t *testing.T) {
	a, b := New(config.DefaultRunnerConfig(), 9), New(config.DefaultRunnerConfig(), 9)
	for i := 0; i < 20; i++ {
		if a.spawner.Next() != b.spawner.Next() {
			t.Fatal("same seed should spawn the same obstacles")
		}
	}
}

func TestPlayMapsKeys(t *testing.T) {
	e := newTestEnv(t)

	var in core.MultiInputFrame
	in.Press(core.Player1, core.ActionUp)
	res, err := e.Play(in)
	if err != nil {
		t.Fatal(err)
	}
	if res.Observation[0] <= 0 {
		t.Error("Up should jump in manual play")
	}
}

func TestDifficultySpeedsUpObstacle(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	config.ApplyPreset(&cfg.Difficulty, config.DifficultyEasy)
	cfg.Difficulty.Progression.MaxAt = 1
	e := New(cfg, 1)

	x := e.Obstacle().X
	e.Step(core.ActionNone)
	if d := x - e.Obstacle().X; d != 7.5 {
		t.Fatalf("base displacement = %v, expected 7.5", d)
	}

	e.dodges = 1
	x = e.Obstacle().X
	e.Step(core.ActionNone)
	if d := x - e.Obstacle().X; d != 15 {
		t.Errorf("displacement at max difficulty = %v, expected 15", d)
	}
}

func TestRenderDrawsPlayer(t *testing.T) {
	e := newTestEnv(t)
	scr := core.NewScreen(80, 24)
	e.Render(scr)

	// Player x=100..150 of 800 maps to columns 10..15.
	x, y := core.ViewportFor(core.NewRect(0, 0, 800, 400), scr).Point(110, 320)
	if c := scr.GetCell(x, y); c.Rune != PlayerChar || c.Color != core.ColorAgent {
		t.Errorf("cell at player = %+v", c)
	}
}

func TestRegisteredWithDifficulty(t *testing.T) {
	if _, err := registry.Create(ID, registry.Options{Seed: 1, Difficulty: "hard"}); err != nil {
		t.Errorf("Create with a valid preset: %v", err)
	}
	if _, err := registry.Create(ID, registry.Options{Seed: 1, Difficulty: "brutal"}); err == nil {
		t.Error("Create with an unknown preset should fail")
	}
}
