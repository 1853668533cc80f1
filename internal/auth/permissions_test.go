package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allPermissions = []Permission{
	PermManageUsers,
	PermManageReservations,
	PermViewSupplierFields,
	PermManageSuppliers,
	PermManageTourists,
	PermManageTopUps,
	PermManageExpenses,
	PermUpdateRequests,
	PermUploadDocuments,
	PermManageSettings,
}

func TestAllowed_Admin(t *testing.T) {
	for _, p := range allPermissions {
		assert.True(t, Allowed("admin", p), string(p))
	}
}

func TestAllowed_SubAgency(t *testing.T) {
	// Sub-agencies hold no registry or management capability; in
	// particular the tourist registry stays invisible to them.
	for _, p := range allPermissions {
		assert.False(t, Allowed("sub_agency", p), string(p))
	}
}

func TestAllowed_UnknownRole(t *testing.T) {
	assert.False(t, Allowed("auditor", PermManageUsers))
	assert.False(t, Allowed("", PermManageTourists))
}

func TestPermissions(t *testing.T) {
	assert.ElementsMatch(t, allPermissions, Permissions("admin"))
	assert.Empty(t, Permissions("sub_agency"))
	assert.Empty(t, Permissions("auditor"))
}
