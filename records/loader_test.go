// Copyright 2025 The Concilia Authors
// SPDX-License-Identifier: Apache-2.0

package records

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jcodagnone/concilia/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mapa = `Latitude,Longitude,Base,Nome,Localidade
-23.50,-46.60,Auvo,Posto Central,São Paulo
-23.52,-46.61,Base Recebida,central posto,São Paulo
-22.90,-43.17,Auvo,Loja A
abc,-43.17,Auvo,Loja B,Rio
-22.90,,Base Recebida,Loja C,Rio
-22.90,-43.17,Outra,Loja D,Rio
-22.91,-43.18,Base Recebida,"Loja Z, Centro",Rio
-22.92,-43.19,Auvo,Loja E,Rio,extra
NaN,-43.19,Auvo,Loja F,Rio
`

func TestLoad(t *testing.T) {
	ds, err := Load(strings.NewReader(mapa))
	require.NoError(t, err)

	want := []GeoRecord{
		{Name: "Posto Central", Point: spatial.Point{Lat: -23.50, Lng: -46.60}, Locality: "São Paulo", Group: "Auvo", Line: 2},
		{Name: "central posto", Point: spatial.Point{Lat: -23.52, Lng: -46.61}, Locality: "São Paulo", Group: "Base Recebida", Line: 3},
		{Name: "Loja D", Point: spatial.Point{Lat: -22.90, Lng: -43.17}, Locality: "Rio", Group: "Outra", Line: 7},
		{Name: "Loja Z, Centro", Point: spatial.Point{Lat: -22.91, Lng: -43.18}, Locality: "Rio", Group: "Base Recebida", Line: 8},
	}

	if diff := cmp.Diff(want, ds.Records); diff != "" {
		t.Errorf("Load() records mismatch (-want +got):\n%s", diff)
	}

	gotLines := make(map[int]RejectReason)
	for _, r := range ds.Rejected {
		gotLines[r.Line] = r.Reason
	}

	assert.Equal(t, map[int]RejectReason{
		1:  RejectLatitude, // header
		4:  RejectFieldCount,
		5:  RejectLatitude,
		6:  RejectLongitude,
		9:  RejectFieldCount,
		10: RejectLatitude,
	}, gotLines)

	assert.Equal(t, map[RejectReason]int{
		RejectLatitude:   3,
		RejectFieldCount: 2,
		RejectLongitude:  1,
	}, ds.RejectedBy())
}

func TestLoadStripsBOM(t *testing.T) {
	ds, err := Load(strings.NewReader("\ufeff-23.5,-46.6,Auvo,Posto,SP\n"))
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	assert.InDelta(t, -23.5, ds.Records[0].Point.Lat, 1e-12)
}

func TestLoadKeepsEmptyNames(t *testing.T) {
	// Blank names are not a loader concern; the matcher refuses them.
	ds, err := Load(strings.NewReader("-23.5,-46.6,Auvo,,SP\n"))
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	assert.Empty(t, ds.Records[0].Name)
}

func TestPartition(t *testing.T) {
	ds, err := Load(strings.NewReader(mapa))
	require.NoError(t, err)

	p := ds.Partition(DefaultSourceGroup, DefaultTargetGroup)

	require.Len(t, p.Source, 1)
	assert.Equal(t, "Posto Central", p.Source[0].Name)

	require.Len(t, p.Target, 2)
	assert.Equal(t, "central posto", p.Target[0].Name)
	assert.Equal(t, "Loja Z, Centro", p.Target[1].Name)

	assert.Equal(t, 1, p.Other)
}

func TestPartitionComparesBaseUntrimmed(t *testing.T) {
	input := "-23.50,-46.60,Auvo ,Posto Central,São Paulo\n" +
		"-23.52,-46.61, Base Recebida,central posto,São Paulo\n" +
		"-23.53,-46.62,auvo,Posto Sul,São Paulo\n"

	ds, err := Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, ds.Records, 3)
	assert.Equal(t, "Auvo ", ds.Records[0].Group)

	p := ds.Partition(DefaultSourceGroup, DefaultTargetGroup)
	assert.Empty(t, p.Source)
	assert.Empty(t, p.Target)
	assert.Equal(t, 3, p.Other)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Mapa.csv")
	require.NoError(t, os.WriteFile(path, []byte(mapa), 0o600))

	ds, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, ds.Records, 4)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRejectReasonString(t *testing.T) {
	assert.Equal(t, "field count", RejectFieldCount.String())
	assert.Equal(t, "unknown", RejectReason(42).String())
}
