package services

import (
	"fmt"
	"testing"

	"myfunds/internal/models"
	"myfunds/internal/testutil"
)

func TestCreateSector(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSectorService(db)
		user := testutil.CreateTestUser(t, db)

		sector, err := svc.CreateSector(user.ID, "Technology")
		testutil.AssertNoError(t, err)

		if sector.ID == "" {
			t.Fatal("expected non-empty sector ID")
		}
		if sector.Name != "Technology" {
			t.Errorf("expected name Technology, got %s", sector.Name)
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSectorService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateSector(user.ID, "   ")
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("case_insensitive_duplicate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSectorService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestSectorWithName(t, db, user.ID, "Energy")

		_, err := svc.CreateSector(user.ID, "ENERGY")
		testutil.AssertAppError(t, err, "DUPLICATE_SECTOR")
	})

	t.Run("same_name_for_other_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSectorService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		testutil.CreateTestSectorWithName(t, db, other.ID, "Energy")

		_, err := svc.CreateSector(user.ID, "Energy")
		testutil.AssertNoError(t, err)
	})

	t.Run("limit_reached", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSectorService(db)
		user := testutil.CreateTestUser(t, db)

		for i := 0; i < models.MaxSectorsPerUser; i++ {
			testutil.CreateTestSectorWithName(t, db, user.ID, fmt.Sprintf("Sector %d", i))
		}

		_, err := svc.CreateSector(user.ID, "One Too Many")
		testutil.AssertAppError(t, err, "SECTOR_LIMIT_REACHED")
	})
}

func TestListSectors(t *testing.T) {
	t.Run("ordered_by_name_user_scoped", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSectorService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		testutil.CreateTestSectorWithName(t, db, user.ID, "Technology")
		testutil.CreateTestSectorWithName(t, db, user.ID, "Energy")
		testutil.CreateTestSectorWithName(t, db, other.ID, "Foreign")

		sectors, err := svc.ListSectors(user.ID)
		testutil.AssertNoError(t, err)

		if len(sectors) != 2 {
			t.Fatalf("expected 2 sectors, got %d", len(sectors))
		}
		if sectors[0].Name != "Energy" || sectors[1].Name != "Technology" {
			t.Errorf("expected Energy before Technology, got %s, %s", sectors[0].Name, sectors[1].Name)
		}
	})
}

func TestUpdateSector(t *testing.T) {
	t.Run("renames", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSectorService(db)
		user := testutil.CreateTestUser(t, db)
		sector := testutil.CreateTestSectorWithName(t, db, user.ID, "Energy")

		updated, err := svc.UpdateSector(user.ID, sector.ID, "Utilities")
		testutil.AssertNoError(t, err)
		if updated.Name != "Utilities" {
			t.Errorf("expected name Utilities, got %s", updated.Name)
		}
	})

	t.Run("rename_to_own_name_allowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSectorService(db)
		user := testutil.CreateTestUser(t, db)
		sector := testutil.CreateTestSectorWithName(t, db, user.ID, "Energy")

		_, err := svc.UpdateSector(user.ID, sector.ID, "energy")
		testutil.AssertNoError(t, err)
	})

	t.Run("rename_to_existing_name_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSectorService(db)
		user := testutil.CreateTestUser(t, db)
		sector := testutil.CreateTestSectorWithName(t, db, user.ID, "Energy")
		testutil.CreateTestSectorWithName(t, db, user.ID, "Technology")

		_, err := svc.UpdateSector(user.ID, sector.ID, "technology")
		testutil.AssertAppError(t, err, "DUPLICATE_SECTOR")
	})

	t.Run("not_owned", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSectorService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		foreign := testutil.CreateTestSector(t, db, other.ID)

		_, err := svc.UpdateSector(user.ID, foreign.ID, "Mine Now")
		testutil.AssertAppError(t, err, "SECTOR_NOT_FOUND")
	})
}

func TestDeleteSector(t *testing.T) {
	t.Run("unassigns_holdings", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSectorService(db)
		user := testutil.CreateTestUser(t, db)
		sector := testutil.CreateTestSector(t, db, user.ID)
		asset := testutil.CreateTestAssetInSector(t, db, user.ID, "AAPL", "1", sector.ID)

		testutil.AssertNoError(t, svc.DeleteSector(user.ID, sector.ID))

		var reloaded models.PortfolioAsset
		testutil.AssertNoError(t, db.First(&reloaded, "id = ?", asset.ID).Error)
		if reloaded.SectorID != nil {
			t.Error("expected holding's sector to be cleared on sector delete")
		}
	})

	t.Run("not_owned", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSectorService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		foreign := testutil.CreateTestSector(t, db, other.ID)

		err := svc.DeleteSector(user.ID, foreign.ID)
		testutil.AssertAppError(t, err, "SECTOR_NOT_FOUND")
	})
}
