package effects

import (
	"testing"
)

// TestRegisterSequentialIndices verifies registration fills the dense prefix
// and saturates with the -1 sentinel.
func TestRegisterSequentialIndices(t *testing.T) {
	r := NewRegistry(3)

	want := []int{0, 1, 2, -1}
	for i, w := range want {
		got := r.Register(float32(i), float32(-i), 1.0, CategoryDefault)
		if got != w {
			t.Errorf("Register call %d returned %d, want %d", i, got, w)
		}
	}
	if r.Count() != 3 {
		t.Errorf("Count after saturation = %d, want 3", r.Count())
	}

	// The rejected descriptor must not have disturbed slot contents.
	pos := r.Positions()
	if len(pos) != 9 {
		t.Fatalf("Positions length = %d, want 9", len(pos))
	}
	if pos[6] != 2 || pos[8] != -2 {
		t.Errorf("slot 2 position = (%f, %f), want (2, -2)", pos[6], pos[8])
	}
}

// TestClearReusesSlots verifies a cleared registry repopulates from index 0.
func TestClearReusesSlots(t *testing.T) {
	r := NewRegistry(3)
	for i := 0; i < 3; i++ {
		r.Register(0, 0, 1, CategoryRock)
	}

	r.Clear()
	if r.Count() != 0 {
		t.Fatalf("Count after Clear = %d, want 0", r.Count())
	}

	if got := r.Register(7, 8, 2, CategoryConifer); got != 0 {
		t.Errorf("first Register after Clear returned %d, want 0", got)
	}
	if r.Positions()[0] != 7 || r.Positions()[2] != 8 {
		t.Errorf("slot 0 after Clear holds (%f, %f), want (7, 8)", r.Positions()[0], r.Positions()[2])
	}
	if r.Categories()[0] != int32(CategoryConifer) {
		t.Errorf("slot 0 category = %d, want %d", r.Categories()[0], CategoryConifer)
	}
}

// TestRegisterBatchDropsOverflow verifies batch registration keeps the first
// capacity entries, drops the rest, and flags the buffers for upload.
func TestRegisterBatchDropsOverflow(t *testing.T) {
	r := NewRegistry(2)

	descs := []Descriptor{
		{X: 1, Z: 1, Scale: 1, Category: CategoryBroadleaf},
		{X: 2, Z: 2, Scale: 2, Category: CategoryPalm},
		{X: 3, Z: 3, Scale: 3, Category: CategoryRock},
	}
	r.RegisterBatch(descs)

	if r.Count() != 2 {
		t.Errorf("Count after overflowing batch = %d, want 2", r.Count())
	}
	if !r.NeedsUpload() {
		t.Errorf("RegisterBatch did not mark buffers for upload")
	}
	if r.Scales()[1] != 2 {
		t.Errorf("slot 1 scale = %f, want 2", r.Scales()[1])
	}
}

// TestUploadFlagLifecycle verifies the renderer-facing dirty flag round trip.
func TestUploadFlagLifecycle(t *testing.T) {
	r := NewRegistry(4)

	if r.NeedsUpload() {
		t.Errorf("fresh registry should not need upload")
	}
	r.Register(0, 0, 1, CategoryDefault)
	r.MarkForUpload()
	if !r.NeedsUpload() {
		t.Errorf("MarkForUpload did not set the flag")
	}
	r.ClearUploadFlag()
	if r.NeedsUpload() {
		t.Errorf("ClearUploadFlag did not clear the flag")
	}
}

// TestSnapshotsCoverOnlyPopulatedPrefix verifies accessors never expose
// stale trailing slots.
func TestSnapshotsCoverOnlyPopulatedPrefix(t *testing.T) {
	r := NewRegistry(5)
	r.Register(1, 2, 3, CategoryCreature)
	r.Register(4, 5, 6, CategoryRock)
	r.Clear()
	r.Register(9, 9, 9, CategoryDefault)

	if len(r.Positions()) != 3 || len(r.Scales()) != 1 || len(r.Categories()) != 1 {
		t.Errorf("snapshot lengths = (%d, %d, %d), want (3, 1, 1)",
			len(r.Positions()), len(r.Scales()), len(r.Categories()))
	}
}

// TestProfileClassification verifies the table lookup, the fallback entry,
// and override precedence in effective scale.
func TestProfileClassification(t *testing.T) {
	if !ProfileFor(CategoryBroadleaf).Dappled {
		t.Errorf("broadleaf shadows should be dappled")
	}
	if ProfileFor(CategoryRock).Dappled {
		t.Errorf("rock shadows should be solid")
	}

	// Unknown categories resolve to the default entry.
	if ProfileFor(Category(999)) != profiles[CategoryDefault] {
		t.Errorf("unknown category did not fall back to the default profile")
	}

	// Table-derived scale: base + size*mult.
	p := ProfileFor(CategoryConifer)
	got := EffectiveScale(CategoryConifer, 2.0, 0)
	want := p.BaseScale + 2.0*p.SizeMult
	if got != want {
		t.Errorf("EffectiveScale(conifer, 2, 0) = %f, want %f", got, want)
	}

	// Caller override takes precedence.
	if EffectiveScale(CategoryConifer, 2.0, 4.5) != 4.5 {
		t.Errorf("explicit override did not take precedence over the table")
	}
}
