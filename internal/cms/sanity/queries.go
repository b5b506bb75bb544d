package sanity

import "fmt"

const summaryProjection = `{
  _id,
  title,
  "slug": slug.current,
  excerpt,
  publishedAt,
  status,
  "categories": categories[]->title
}`

const postProjection = `{
  _id,
  title,
  "slug": slug.current,
  excerpt,
  publishedAt,
  status,
  "author": author->name,
  "categories": categories[]->title,
  "categoryRefs": categories[]->{_id, title, "slug": slug.current},
  body[]{
    ...,
    _type == "image" => {..., "asset": {"_ref": asset._ref, "url": asset->url}}
  },
  "mainImage": mainImage{"url": asset->url, alt},
  "featuredImage": coalesce(seo.ogImage, featuredImage){"url": asset->url, alt},
  "metaTitle": coalesce(seo.metaTitle, metaTitle),
  "metaDescription": coalesce(seo.metaDescription, metaDescription)
}`

const (
	qFeatured = `*[_type == "post" && featured == true && status == "published"] | order(publishedAt desc) [0...4] ` + summaryProjection

	qByCategory = `*[_type == "post" && status == "published" && references(*[_type == "category" && slug.current == $categorySlug]._id)] | order(publishedAt desc) ` + summaryProjection

	qAll = `*[_type == "post" && status == "published"] | order(publishedAt desc) ` + summaryProjection

	qBySlug = `*[_type == "post" && slug.current == $slug && status == "published"][0] ` + postProjection

	qBySlugAdmin = `*[_type == "post" && slug.current == $slug][0] ` + postProjection

	qDrafts = `*[_type == "post" && status == "draft"] | order(_updatedAt desc) ` + summaryProjection
)

func qLatest(limit int) string {
	return fmt.Sprintf(`*[_type == "post" && status == "published"] | order(publishedAt desc) [0...%d] `, limit) + summaryProjection
}

func qRelated(limit int) string {
	return fmt.Sprintf(`*[
  _type == "post"
  && status == "published"
  && _id != $currentPostId
  && count((categories[]._ref)[@ in $categoryIds]) > 0
] | order(publishedAt desc) [0...%d] `, limit) + summaryProjection
}
