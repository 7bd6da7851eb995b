package udev

import "testing"

func TestDriveStatusString(t *testing.T) {
	cases := []struct {
		status DriveStatus
		want   string
	}{
		{DriveStatusNoInfo, "no_info"},
		{DriveStatusNoDisc, "no_disc"},
		{DriveStatusTrayOpen, "tray_open"},
		{DriveStatusNotReady, "not_ready"},
		{DriveStatusDiscOK, "disc_ok"},
		{DriveStatus(99), "unknown(99)"},
	}
	for _, tc := range cases {
		if got := tc.status.String(); got != tc.want {
			t.Errorf("String(%d) = %q, want %q", int(tc.status), got, tc.want)
		}
	}
}

func TestCheckDriveStatusEmptyDevice(t *testing.T) {
	if _, err := CheckDriveStatus("  "); err == nil {
		t.Fatal("expected error for empty device path")
	}
}
