package media

import "strings"

// DefaultImagePath ruta local que se muestra cuando un producto no tiene foto.
// El sistema anterior tenía dos rutas por defecto distintas según la pantalla;
// aquí están unificadas en esta.
const DefaultImagePath = "/img/no-image.png"

// ImageHost construye URLs seguras (https) a partir de un public_id del host
// de imágenes externo.
type ImageHost interface {
	SecureURL(publicID string) (string, error)
}

// Resolver resuelve la referencia de foto de un producto a una URL visible.
type Resolver struct {
	host ImageHost
}

// NewResolver construye el resolver sobre el host de imágenes.
func NewResolver(host ImageHost) *Resolver {
	return &Resolver{host: host}
}

// ResolveURL aplica la cadena de resolución:
//  1. referencia vacía o solo espacios -> DefaultImagePath
//  2. referencia que empieza por "http" (sin distinguir mayúsculas) -> se
//     devuelve tal cual, ya es una URL absoluta
//  3. cualquier otra cosa se trata como public_id y se pide la URL segura al
//     host; si el host falla se vuelve a la ruta por defecto (resolver una
//     foto nunca hace fallar la petición)
func (r *Resolver) ResolveURL(photoRef string) string {
	if strings.TrimSpace(photoRef) == "" {
		return DefaultImagePath
	}
	if strings.HasPrefix(strings.ToLower(photoRef), "http") {
		return photoRef
	}
	url, err := r.host.SecureURL(photoRef)
	if err != nil || url == "" {
		return DefaultImagePath
	}
	return url
}
