package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"jukusite.app/builder/models"
)

func TestSiteChangesApplyCustomDomain(t *testing.T) {
	domain := "juku.example.com"
	site := models.Site{}

	site = SiteChanges{CustomDomain: &domain}.Apply(site)
	require.NotNil(t, site.CustomDomain)
	assert.Equal(t, domain, *site.CustomDomain)

	// A nil field leaves the stored value untouched.
	site = SiteChanges{}.Apply(site)
	require.NotNil(t, site.CustomDomain)

	// The empty string clears to NULL instead of persisting "".
	empty := ""
	site = SiteChanges{CustomDomain: &empty}.Apply(site)
	assert.Nil(t, site.CustomDomain)
}
