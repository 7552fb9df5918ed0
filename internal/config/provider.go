// Package config supplies extraction configuration: which entity types are
// relevant for a (sender category, source type) pair and how they rank. The
// engine only ever reads these rows; authoring happens in the rules store.
package config

import (
	"context"

	"github.com/david/shipment-tracker/internal/extract"
)

// Static serves a fixed in-memory table. It backs tests and the CLI tools,
// and provides the rows used when the database has none for a category.
type Static struct {
	Table map[extract.SenderCategory][]extract.ConfigEntry
}

func (s *Static) Entries(_ context.Context, category extract.SenderCategory, _ extract.SourceType) ([]extract.ConfigEntry, error) {
	return s.Table[category], nil
}

// Defaults returns a Static provider with a sensible baseline: carriers get
// the full booking/equipment set, brokers get customs identifiers, terminals
// get free-time and appointments, and the catch-all category gets the core
// linkable identifiers only.
func Defaults() *Static {
	carrierSet := []extract.ConfigEntry{
		{EntityType: extract.EntityBookingNumber, Priority: 100, IsRequired: true, IsCritical: true, IsLinkable: true},
		{EntityType: extract.EntityContainerNumber, Priority: 95, IsCritical: true, IsLinkable: true},
		{EntityType: extract.EntityBLNumber, Priority: 90, IsCritical: true, IsLinkable: true},
		{EntityType: extract.EntityVesselName, Priority: 80},
		{EntityType: extract.EntityVoyageNumber, Priority: 78},
		{EntityType: extract.EntityETD, Priority: 75},
		{EntityType: extract.EntityETA, Priority: 75},
		{EntityType: extract.EntityPortOfLoading, Priority: 70},
		{EntityType: extract.EntityPortOfDischarge, Priority: 70},
		{EntityType: extract.EntityGateCutoff, Priority: 68},
		{EntityType: extract.EntityDocCutoff, Priority: 68},
		{EntityType: extract.EntityCutoffDate, Priority: 65},
		{EntityType: extract.EntitySealNumber, Priority: 60},
		{EntityType: extract.EntityContainerType, Priority: 55},
		{EntityType: extract.EntityVGMWeight, Priority: 55},
		{EntityType: extract.EntityGrossWeight, Priority: 50},
	}

	brokerSet := []extract.ConfigEntry{
		{EntityType: extract.EntityEntryNumber, Priority: 100, IsRequired: true, IsCritical: true, IsLinkable: true},
		{EntityType: extract.EntityBLNumber, Priority: 90, IsLinkable: true},
		{EntityType: extract.EntityContainerNumber, Priority: 85, IsLinkable: true},
		{EntityType: extract.EntityITNumber, Priority: 80, IsCritical: true},
		{EntityType: extract.EntityISFNumber, Priority: 80, IsCritical: true},
		{EntityType: extract.EntityAMSNumber, Priority: 75},
		{EntityType: extract.EntityHSCode, Priority: 70},
		{EntityType: extract.EntityAmount, Priority: 60},
		{EntityType: extract.EntityInvoiceNumber, Priority: 55},
		{EntityType: extract.EntityGrossWeight, Priority: 50},
		{EntityType: extract.EntityNetWeight, Priority: 50},
	}

	forwarderSet := []extract.ConfigEntry{
		{EntityType: extract.EntityBookingNumber, Priority: 95, IsLinkable: true},
		{EntityType: extract.EntityContainerNumber, Priority: 90, IsLinkable: true},
		{EntityType: extract.EntityBLNumber, Priority: 90, IsLinkable: true},
		{EntityType: extract.EntityJobNumber, Priority: 85},
		{EntityType: extract.EntityPONumber, Priority: 80},
		{EntityType: extract.EntityInvoiceNumber, Priority: 75},
		{EntityType: extract.EntityETD, Priority: 70},
		{EntityType: extract.EntityETA, Priority: 70},
		{EntityType: extract.EntityIncoterms, Priority: 65},
		{EntityType: extract.EntityAmount, Priority: 60},
		{EntityType: extract.EntityVolume, Priority: 55},
		{EntityType: extract.EntityPackageCount, Priority: 55},
		{EntityType: extract.EntityGrossWeight, Priority: 50},
	}

	terminalSet := []extract.ConfigEntry{
		{EntityType: extract.EntityContainerNumber, Priority: 100, IsRequired: true, IsCritical: true, IsLinkable: true},
		{EntityType: extract.EntityLastFreeDay, Priority: 90, IsCritical: true},
		{EntityType: extract.EntityDemurrageStart, Priority: 85},
		{EntityType: extract.EntityAppointmentNumber, Priority: 80},
		{EntityType: extract.EntityVesselName, Priority: 60},
		{EntityType: extract.EntityVoyageNumber, Priority: 60},
	}

	truckingSet := []extract.ConfigEntry{
		{EntityType: extract.EntityContainerNumber, Priority: 100, IsRequired: true, IsLinkable: true},
		{EntityType: extract.EntityAppointmentNumber, Priority: 90},
		{EntityType: extract.EntityInlandLocation, Priority: 80},
		{EntityType: extract.EntityLastFreeDay, Priority: 75},
		{EntityType: extract.EntityPONumber, Priority: 60},
	}

	railSet := []extract.ConfigEntry{
		{EntityType: extract.EntityContainerNumber, Priority: 100, IsRequired: true, IsLinkable: true},
		{EntityType: extract.EntityInlandLocation, Priority: 85},
		{EntityType: extract.EntityLastFreeDay, Priority: 80},
		{EntityType: extract.EntityETA, Priority: 70},
	}

	otherSet := []extract.ConfigEntry{
		{EntityType: extract.EntityBookingNumber, Priority: 80, IsLinkable: true},
		{EntityType: extract.EntityContainerNumber, Priority: 80, IsLinkable: true},
		{EntityType: extract.EntityBLNumber, Priority: 75, IsLinkable: true},
		{EntityType: extract.EntityETA, Priority: 50},
		{EntityType: extract.EntityETD, Priority: 50},
	}

	table := map[extract.SenderCategory][]extract.ConfigEntry{
		extract.CategoryCustomsBroker:    brokerSet,
		extract.CategoryFreightForwarder: forwarderSet,
		extract.CategoryTerminal:         terminalSet,
		extract.CategoryTrucking:         truckingSet,
		extract.CategoryRail:             railSet,
		extract.CategoryOtherCarrier:     carrierSet,
		extract.CategoryOther:            otherSet,
	}
	for _, carrier := range []extract.SenderCategory{
		extract.CategoryMaersk, extract.CategoryMSC, extract.CategoryCMACGM,
		extract.CategoryHapag, extract.CategoryONE, extract.CategoryEvergreen,
		extract.CategoryCOSCO, extract.CategoryYangMing, extract.CategoryZIM,
		extract.CategoryHMM,
	} {
		table[carrier] = carrierSet
	}

	return &Static{Table: table}
}
