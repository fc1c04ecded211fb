// Package pagefs loads page data, part catalogs, image catalogs and
// stylesheets from an fs.FS. Data files may be JSON or YAML.
package pagefs
