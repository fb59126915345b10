package template

// Stock message templates. These ship with the binary so the tool works with
// no template file at all; a YAML file can override any of them or add new
// ones.

const citaTemplate = `Hola *{nombre}* 😁,

Le recordamos que tiene una reserva en *GO BARAJAS* para el día de *mañana* a las *{hora}h*.
Matrícula registrada: *{matricula}*
👥 Número de ocupantes: *{ocupantes}*

📆 Por favor, confirme su asistencia respondiendo a este mensaje.
*(Avísenos si viene con alguna mascota 🐶😼)*

📍 Dirección: Ver ubicación en Google Maps:
https://goo.gl/maps/bH9XgxPZE4ze8Yaf9

🅿 Elija una plaza libre, recuerde el número de su plaza y pase por la oficina.

📞 Teléfono de contacto: *+34 919 23 73 78*
Le recomendamos guardarlo en su agenda.

Gracias por su confianza. ¡Le esperamos!`

const recogidaTardesTemplate = `Hola buenas Tardes,
Les recordamos que hoy les  recogemos **ARRIBA EN LA PLATAFORMA DE SALIDAS de  la Terminal* *1 Puerta 3* || *T2- Puerta 7* || *T4 Puerta 5*|| 🚪
Cuando recoja todo el equipaje de la cinta o este de camino al punto de encuentro nos tiene que llamar  *+34 919 237 378* ( *Llamada Normal* 📞,NO WHATSAPP). Gracias.
(*Avisen si necesitan sillita para niño/bebe* 👶) `

const recogidaMananaTemplate = `Hola buenos dias,
Les recordamos que hoy les  recogemos **ARRIBA EN LA PLATAFORMA DE SALIDAS de  la Terminal* *1 Puerta 3* || *T2- Puerta 7* || *T4 Puerta 5*|| 🚪
Cuando recoja todo el equipaje de la cinta o este de camino al punto de encuentro nos tiene que llamar  *+34 919 237 378* ( *Llamada Normal* 📞,NO WHATSAPP). Gracias.
(*Avisen si necesitan sillita para niño/bebe* 👶) `

const premiumTemplate = `Hola, le recordamos que en el día de mañana tiene una reserva en Go Barajas a las *{hora}* , se le recogerá el vehículo en la *Terminal* *{servicios}.*
El día de su reserva llámenos 20 - 15 minutos antes de llegar a la Terminal desde la que viaja y en la plataforma de "SALIDAS", uno de nuestros chóferes adecuadamente identificado (chaleco amarillo y logotipo de nuestra empresa) recogerá su coche.
Adjuntamos nuestro teléfono *+34 919 237 378* .
Muchas gracias 🙂  `

const citaMultipleTemplate = `Hola *{nombre}* 😁

Le recordamos que tiene *{reservas_count} reservas* en *GO BARAJAS* para el día de *mañana* a las *{hora}h*.

🚗 *Vehículos registrados:*
{matricula}

👥 *Total de ocupantes:* *{ocupantes}*

📆 Por favor, confirme su asistencia respondiendo a este mensaje.
*(Avísenos si viene con alguna mascota 🐶😼)*

📍 Dirección: Ver ubicación en Google Maps:
https://goo.gl/maps/bH9XgxPZE4ze8Yaf9

🅿 Una vez aparcado, recuerde el número de su plaza y pase por la oficina.

📞 Teléfono de contacto: *+34 919 23 73 78*
Le recomendamos guardarlo en su agenda.

Gracias por su confianza. ¡Le esperamos!`

// stockNames lists the built-in templates in display order.
var stockNames = []string{
	"RecordatorioCita",
	"RecogidaTardes",
	"RecogidaManana",
	"Premium",
	"CitaMultiple",
}

var stockTemplates = map[string]string{
	"RecordatorioCita": citaTemplate,
	"RecogidaTardes":   recogidaTardesTemplate,
	"RecogidaManana":   recogidaMananaTemplate,
	"Premium":          premiumTemplate,
	"CitaMultiple":     citaMultipleTemplate,
}
