package identity_test

import (
	"testing"
	"time"

	"github.com/garbled1/ps-ripper/internal/catalog"
	"github.com/garbled1/ps-ripper/internal/identity"
)

func fixedPolicy() *identity.Policy {
	return &identity.Policy{
		Now:   func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) },
		NewID: func() string { return "generated-uuid" },
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		md   identity.Metadata
		want identity.MediaKind
	}{
		{
			name: "audio tracks with playstation app id",
			md:   identity.Metadata{AppID: "PLAYSTATION", AudioTracks: 5, FSType: "iso9660"},
			want: identity.AudioDataCD,
		},
		{
			name: "udf without playstation app id",
			md:   identity.Metadata{FSType: "udf"},
			want: identity.PS2DVD,
		},
		{
			name: "hybrid udf",
			md:   identity.Metadata{FSType: "iso9660/UDF"},
			want: identity.PS2DVD,
		},
		{
			name: "playstation data cd",
			md:   identity.Metadata{AppID: "PLAYSTATION", FSType: "iso9660"},
			want: identity.PS1DataCD,
		},
		{
			name: "udf with playstation app id stays cd",
			md:   identity.Metadata{AppID: "PLAYSTATION", FSType: "udf"},
			want: identity.PS1DataCD,
		},
		{
			name: "empty metadata",
			md:   identity.Metadata{},
			want: identity.UnknownMedia,
		},
		{
			name: "foreign disc",
			md:   identity.Metadata{FSType: "iso9660", AppID: "XBOX", Label: "HALO"},
			want: identity.UnknownMedia,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := identity.Classify(tc.md); got != tc.want {
				t.Fatalf("Classify = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDeriveAllFieldsAbsent(t *testing.T) {
	id := fixedPolicy().Derive(identity.PS1DataCD, identity.Metadata{}, "", nil)
	if id.UniqueID == "" {
		t.Fatal("unique id must never be empty")
	}
	if id.UniqueID != "generated-uuid" {
		t.Fatalf("UniqueID = %q, want generated uuid fallback", id.UniqueID)
	}
	if id.Label != id.UniqueID {
		t.Fatalf("Label = %q, want unique id fallback", id.Label)
	}
	if id.Publisher == "" {
		t.Fatal("publisher fallback must not be empty")
	}
}

func TestDeriveTimestampFallback(t *testing.T) {
	policy := fixedPolicy()
	policy.NewID = func() string { return "" }

	id := policy.Derive(identity.AudioDataCD, identity.Metadata{}, "", nil)
	if id.UniqueID != "20240310T120000Z" {
		t.Fatalf("UniqueID = %q, want timestamp fallback", id.UniqueID)
	}
}

func TestDeriveCDUsesFSUUID(t *testing.T) {
	md := identity.Metadata{
		AppID:       "PLAYSTATION",
		PublisherID: "SONY",
		Label:       "CRASH_BANDICOOT",
		FSUUID:      "1996-10-31-00-00-00-00",
	}
	id := fixedPolicy().Derive(identity.PS1DataCD, md, "", nil)
	if id.UniqueID != "1996-10-31-00-00-00-00" {
		t.Fatalf("UniqueID = %q, want filesystem uuid", id.UniqueID)
	}
	if id.Label != "CRASH_BANDICOOT" {
		t.Fatalf("Label = %q, want volume label", id.Label)
	}
	if id.Publisher != "SONY" {
		t.Fatalf("Publisher = %q, want SONY", id.Publisher)
	}
}

func TestDeriveDVDResolvedTitle(t *testing.T) {
	record := &catalog.Record{
		Serial: "SLUS-20435",
		Region: catalog.RegionUSA,
		Title:  "Grand Theft Auto: Vice City",
	}
	md := identity.Metadata{FSType: "udf", Label: "GTA_VC"}

	id := fixedPolicy().Derive(identity.PS2DVD, md, "SLUS-20435", record)
	if id.UniqueID != "SLUS-20435" {
		t.Fatalf("UniqueID = %q, want serial", id.UniqueID)
	}
	if id.Label != "Grand_Theft_Auto-_Vice_City" {
		t.Fatalf("Label = %q, want sanitized resolved title", id.Label)
	}
	if id.Region != catalog.RegionUSA {
		t.Fatalf("Region = %v, want USA", id.Region)
	}
}

func TestDeriveDVDCatalogMiss(t *testing.T) {
	md := identity.Metadata{FSType: "udf"}

	id := fixedPolicy().Derive(identity.PS2DVD, md, "SLKA-25042", nil)
	if id.UniqueID != "SLKA-25042" {
		t.Fatalf("UniqueID = %q, want raw serial", id.UniqueID)
	}
	if id.Label != "SLKA-25042" {
		t.Fatalf("Label = %q, want raw serial as label", id.Label)
	}
}

func TestDeriveDVDNoSerialFallsBackToLabel(t *testing.T) {
	md := identity.Metadata{FSType: "udf", Label: "UNKNOWN_PS2_DISC", FSUUID: "abcd-1234"}

	id := fixedPolicy().Derive(identity.PS2DVD, md, "", nil)
	if id.UniqueID != "abcd-1234" {
		t.Fatalf("UniqueID = %q, want filesystem uuid", id.UniqueID)
	}
	if id.Label != "UNKNOWN_PS2_DISC" {
		t.Fatalf("Label = %q, want volume label", id.Label)
	}
}
