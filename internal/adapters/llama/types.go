package llama

import "github.com/alejandrodnm/yieldsite/internal/domain"

// DTOs raw de la API de yields. Solo se usan dentro de este paquete.

const statusSuccess = "success"

// poolsResponse es la respuesta de GET /pools.
// Los registros ya tienen la forma de domain.Pool, así que se decodifican directo.
type poolsResponse struct {
	Status string        `json:"status"`
	Data   []domain.Pool `json:"data"`
}
