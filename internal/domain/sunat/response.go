package sunat

import "errors"

// SunatErrorData detalle del rechazo emitido por SUNAT.
type SunatErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CDRResponse contenido relevante de la Constancia de Recepción (CDR).
type CDRResponse struct {
	Code        int      `json:"code"`
	Description string   `json:"description"`
	Notes       []string `json:"notes,omitempty"`
}

// RawResult resultado crudo que devuelve el transmisor después de firmar y
// enviar el comprobante. Si Success es falso, Error trae el motivo del
// rechazo; si es verdadero, CDR trae la constancia.
type RawResult struct {
	XML     []byte
	Hash    string
	Success bool
	CDR     *CDRResponse
	CDRZip  []byte
	Error   *SunatErrorData
}

// TransmitError falla de transporte o protocolo ocurrida antes de que SUNAT
// pudiera evaluar el documento. El transmisor lo devuelve como error normal;
// el intérprete lo convierte en dato.
type TransmitError struct {
	Code    string
	Message string
}

func (e *TransmitError) Error() string {
	if e.Code != "" {
		return "sunat: error de transporte " + e.Code + ": " + e.Message
	}
	return "sunat: error de transporte: " + e.Message
}

// TransportFailure intento de envío que nunca llegó a ser evaluado.
type TransportFailure struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// Evaluated veredicto de SUNAT sobre un documento que sí fue evaluado.
// Success falso con Error poblado es un rechazo; verdadero con Receipt
// poblado es una aceptación con su constancia.
type Evaluated struct {
	Success bool            `json:"success"`
	Receipt *CDRResponse    `json:"cdrResponse,omitempty"`
	Error   *SunatErrorData `json:"error,omitempty"`
}

// Outcome desenlace de un intento de envío. Exactamente uno de los dos
// campos es no nulo. Tanto el rechazo como la falla de transporte son datos
// que el llamador inspecciona, nunca pánicos ni errores que suban más allá
// de esta frontera: la factura no se pierde, solo queda Pendiente.
type Outcome struct {
	Transport *TransportFailure
	Evaluated *Evaluated
	Raw       *RawResult
}

// Accepted indica si SUNAT evaluó y aceptó el documento.
func (o Outcome) Accepted() bool {
	return o.Evaluated != nil && o.Evaluated.Success
}

// Interpret clasifica el resultado del transmisor. Un error de transporte
// (red caída, SOAP malformado, timeout) se vuelve TransportFailure; una
// respuesta de SUNAT, aceptación o rechazo, se vuelve Evaluated. Nunca
// reintenta.
func Interpret(raw *RawResult, err error) Outcome {
	if err != nil {
		var te *TransmitError
		if errors.As(err, &te) {
			return Outcome{Transport: &TransportFailure{Code: te.Code, Message: te.Message}}
		}
		return Outcome{Transport: &TransportFailure{Message: err.Error()}}
	}
	if raw == nil {
		// Un transmisor que no devuelve ni resultado ni error rompe su
		// contrato; se clasifica como falla de transporte, nunca pánico.
		return Outcome{Transport: &TransportFailure{Message: "el transmisor no devolvió resultado"}}
	}
	if raw.Success {
		return Outcome{Evaluated: &Evaluated{Success: true, Receipt: raw.CDR}, Raw: raw}
	}
	return Outcome{Evaluated: &Evaluated{Success: false, Error: raw.Error}, Raw: raw}
}
