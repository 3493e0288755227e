package services

import (
	"fmt"
	"strings"

	learningrepo "github.com/yungbote/materialhub-backend/internal/data/repos/learning"
	"github.com/yungbote/materialhub-backend/internal/domain/entity"
	"github.com/yungbote/materialhub-backend/internal/domain/learning"
	"github.com/yungbote/materialhub-backend/internal/platform/apierr"
	"github.com/yungbote/materialhub-backend/internal/platform/dbctx"
)

const marketPath = "/desktop/#/market"

// StorefrontURL is the public market URL of a storefront.
func StorefrontURL(prefix, domain string) string {
	return fmt.Sprintf("https://%s.%s%s", strings.TrimSpace(prefix), strings.Trim(strings.TrimSpace(domain), "."), marketPath)
}

// StorefrontCallbacks returns the computed-field callbacks for storefront content.
func StorefrontCallbacks(storefronts learningrepo.StorefrontRepo, domain string) map[entity.FieldType]FieldCallback {
	sc := &storefrontCallbacks{storefronts: storefronts, domain: domain}
	return map[entity.FieldType]FieldCallback{
		entity.FieldStorefrontURL:        sc.url,
		entity.FieldStorefrontCourseList: sc.courses,
	}
}

type storefrontCallbacks struct {
	storefronts learningrepo.StorefrontRepo
	domain      string
}

func (sc *storefrontCallbacks) storefront(dbc dbctx.Context, value any) (*learning.Storefront, error) {
	if sf, ok := value.(*learning.Storefront); ok {
		return sf, nil
	}
	scoped, ok := value.(learning.StorefrontScoped)
	if !ok {
		return nil, apierr.Internal("formatter.storefront", fmt.Errorf("%T is not storefront content", value))
	}
	return sc.storefronts.GetByID(dbc, scoped.StorefrontPK())
}

func (sc *storefrontCallbacks) url(dbc dbctx.Context, value any) (any, error) {
	sf, err := sc.storefront(dbc, value)
	if err != nil || sf == nil {
		return nil, err
	}
	base := StorefrontURL(sf.Prefix, sc.domain)
	if c, ok := value.(*learning.Course); ok {
		return base + "/" + c.UUID, nil
	}
	return base, nil
}

func (sc *storefrontCallbacks) courses(dbc dbctx.Context, value any) (any, error) {
	sf, err := sc.storefront(dbc, value)
	if err != nil {
		return nil, err
	}
	out := []map[string]any{}
	if sf == nil {
		return out, nil
	}
	courses, err := sc.storefronts.PublishedCourses(dbc, sf.ID)
	if err != nil {
		return nil, err
	}
	base := StorefrontURL(sf.Prefix, sc.domain)
	for _, c := range courses {
		out = append(out, map[string]any{
			"uuid":    c.UUID,
			"title":   c.Title,
			"summary": c.Summary,
			"url":     base + "/" + c.UUID,
		})
	}
	return out, nil
}
